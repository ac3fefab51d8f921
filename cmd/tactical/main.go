// Package main is the entry point for the tactical CLI, which analyses
// football player detections and pitch keypoints and reports team shape
// and formation statistics.
package main

func main() {
	Execute()
}
