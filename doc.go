/*
Package binimg converts arbitrary binary files into images, which are useful for the visual
inspection and fingerprinting of executables. Every byte of the file becomes the intensity of
one grayscale pixel, or one channel of an RGB pixel, laid out row by row on a grid whose width
depends on the file size. Files of similar size and structure therefore produce similarly shaped images.

The package provides a command line interface converting a whole directory concurrently.
To check the supported commands type:

	$ binimg --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/binimg"
	)

	func main() {
		c := &binimg.Converter{
			Ext: ".png",
		}

		res, err := c.Run("sample.exe")
		if err != nil {
			fmt.Printf("Error converting file: %s", err.Error())
		}
		fmt.Println(res.Grayscale, res.RGB)
	}
*/
package binimg
