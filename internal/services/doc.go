// Package services defines the shared error taxonomy and context plumbing used
// by detection strategies and their external collaborators (ffmpeg, ffprobe,
// the speech engine).
package services
