/*
go-tactical turns per frame player detections and pitch keypoints from a
football broadcast into tactical analysis.  Each frame's keypoints are fitted
to a homography which projects the players onto a 105x68 meter pitch, where
each team's formation is classified and its shape metrics are calculated.
Metrics accumulate in per team ring buffers from which match statistics,
trends and timelines are produced.

The detection and tracking models themselves are not part of this package,
their output is consumed as JSON Lines via LoadFrames.  A top down radar of
each frame can be rendered with the render subpackage.

See the command line tool and its usage in the cmd/tactical subdirectory.
*/
package tactical
