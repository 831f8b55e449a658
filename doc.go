/*
Package vectorace converts raster images into SVG vector graphics
using one of four backends: edge tracing, centerline extraction,
region segmentation, and stipple placement.

Here is a simple example of tracing an image with the edge backend:

	package main

	import (
		"fmt"
		"github.com/esimov/vectorace"
	)

	func main() {
		raster := vectorace.Raster{W: w, H: h, Pix: pix}

		svg, err := vectorace.TraceEdge(raster, vectorace.DefaultEdgeConfig())
		if err != nil {
			fmt.Printf("Error tracing image: %s", err.Error())
			return
		}
		fmt.Println(svg)
	}

Each backend takes a Raster and a backend-specific Config (EdgeConfig,
CenterlineConfig, RegionsConfig, DotsConfig), all of which embed a
SharedConfig controlling the common preprocessing stage: background
removal, noise filtering, and thresholding.
*/
package vectorace
