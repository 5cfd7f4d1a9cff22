// Package pcm decodes raw audio samples into an amplitude envelope: a
// sequence of per-hop RMS levels in dBFS that the silence detector scans.
package pcm
