// Package main trains the reflection separation model on the fused stream of synthetic
// composites, real pairs and nature pairs, evaluating it on the benchmarks after every
// epoch. With --resume the run continues from its latest checkpoint.
package main
