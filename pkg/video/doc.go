// Package video is the boundary between splitviz and encoded video files.
//
// Decoding and encoding are delegated to the external ffmpeg and ffprobe
// binaries, exchanging raw rgb24 frames over pipes:
//
//   - [Probe] reads width, height, frame rate and frame count.
//   - [Open] decodes every frame eagerly into a [Sequence]; looping renders
//     need random access, and demo clips are short.
//   - [Encoder] streams composited frames into ffmpeg. Output is written to
//     a hidden partial file and only renamed into place by [Encoder.Close],
//     so an aborted render never leaves a truncated video behind.
//
// In memory a frame is an *image.RGBA with opaque alpha, which lets the
// compositors draw with the standard image and font packages. Only the
// three color channels cross the pipe.
//
// The binaries are looked up on PATH unless overridden by [SetFFmpeg] /
// [SetFFprobe] (the CLI wires these to SPLITVIZ_FFMPEG / SPLITVIZ_FFPROBE).
package video
