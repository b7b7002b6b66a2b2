// Package batch runs conversion and detection jobs over many files.
//
// Jobs are independent and share no state, so the runner executes them
// with bounded concurrency. A failure on one file is recorded and does
// not stop the rest of the batch; only a missing external tool aborts
// everything, since no job could succeed.
package batch
