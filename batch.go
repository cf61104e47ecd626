package binimg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler converts every regular file of a directory using a fixed pool of workers.
type Scheduler struct {
	Converter *Converter
	Observer  Observer
	// ID identifies the batch. A random one is generated when empty.
	ID uuid.UUID
	// QueueSize bounds the number of pending work items. Defaults to twice the worker count.
	QueueSize int
}

// Report summarizes a finished batch.
// Skipped lists the directory entries left out because they are outputs of a previous run.
type Report struct {
	ID        uuid.UUID
	Dir       string
	Workers   int
	Total     int
	Succeeded int
	Failed    int
	Skipped   []string
	Results   []Result
	Elapsed   time.Duration
}

// Run enqueues the regular files found in dir (non-recursively) and spawns exactly
// workers goroutines to convert them. It returns after every enqueued item
// has been processed. Failed items are reported, never retried.
func (s *Scheduler) Run(dir string, workers int) (*Report, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	conv := s.Converter
	if conv == nil {
		conv = &Converter{}
	}
	if err := conv.Validate(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read the source directory: %w", err)
	}

	id := s.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	size := s.QueueSize
	if size <= 0 {
		size = workers * 2
	}

	now := time.Now()
	report := &Report{ID: id, Dir: dir, Workers: workers}
	inputs, conflicts, skipped := collect(dir, entries, conv)
	report.Skipped = skipped

	q := NewWorkQueue(size)
	go produce(q, inputs)

	res := make(chan Result)
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			consume(q, conv, res)
		}()
	}

	// Close the results channel once every item is done and the workers have exited.
	go func() {
		defer close(res)
		q.Wait()
		wg.Wait()
	}()

	for _, r := range conflicts {
		s.record(report, r)
	}
	for r := range res {
		s.record(report, r)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Input < report.Results[j].Input
	})
	report.Elapsed = time.Since(now)

	return report, nil
}

// record adds the result to the report and notifies the observer.
func (s *Scheduler) record(report *Report, r Result) {
	report.Total++
	report.Results = append(report.Results, r)
	if r.Err != nil {
		report.Failed++
	} else {
		report.Succeeded++
	}

	if s.Observer == nil {
		return
	}
	if r.Err != nil {
		s.Observer.OnFailure(r)
	} else {
		s.Observer.OnSuccess(r)
	}
}

// collect filters the directory listing to the regular files which should be converted.
// An input whose artifacts would overwrite the ones of an earlier entry is not returned;
// it gets a failed result instead, so that two workers never write the same file.
func collect(dir string, entries []os.DirEntry, conv *Converter) (inputs []string, conflicts []Result, skipped []string) {
	owners := make(map[string]string)

	for _, e := range entries {
		if conv.IsArtifact(e.Name()) {
			skipped = append(skipped, e.Name())
			continue
		}
		path := filepath.Join(dir, e.Name())

		// Stat follows symlinks, so links to regular files are converted too.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		gray, _ := conv.OutputPaths(path)
		if owner, ok := owners[gray]; ok {
			err := fmt.Errorf("%w by %s", ErrOutputConflict, filepath.Base(owner))
			conflicts = append(conflicts, Result{Input: path, Err: &IOError{Path: gray, Err: err}})
			continue
		}
		owners[gray] = path
		inputs = append(inputs, path)
	}
	return inputs, conflicts, skipped
}

// produce puts the inputs on the queue and closes it after the last one.
func produce(q *WorkQueue, inputs []string) {
	defer q.Close()

	for _, in := range inputs {
		q.Put(WorkItem(in))
	}
}

// consume dequeues the work items one by one and runs the conversion on them
// until the queue is drained.
func consume(q *WorkQueue, conv *Converter, res chan<- Result) {
	for {
		item, ok := q.Get()
		if !ok {
			return
		}
		r, _ := conv.Run(string(item))
		res <- r
		q.Done()
	}
}
