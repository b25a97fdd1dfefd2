// Package report turns a highlight pipeline result into files a person can
// inspect after a batch run: a YAML manifest with object and area
// statistics, the cropped highlight images, and a plot of the automaton's
// convergence.
package report
