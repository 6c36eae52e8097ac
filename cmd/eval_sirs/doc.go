// Package main evaluates a checkpoint on real20 and the SIR2 subsets, and on the nature
// set with --test_nature, printing PSNR and SSIM of every benchmark.
package main
