// Package modeseek finds the density mode of every point of a normalized
// feature space by mean-shift iteration.
//
// Each point is independent: workers read the shared, already normalized
// space and write only their own slot of the result. Run dispatches chunks of
// indices to an errgroup with a concurrency limit, so a new chunk starts as
// soon as any previous one finishes. Points in sparse regions need more
// iterations than points in dense clusters and would unbalance a static split.
package modeseek
