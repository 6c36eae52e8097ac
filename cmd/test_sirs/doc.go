// Package main decomposes a flat directory of photographs with a checkpoint.
// Photographs decomposed by a previous run into the same directory are skipped.
package main
