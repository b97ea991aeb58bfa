/*
Package bench compares predicted structure fragments against the matching
windows of reference structures, one record of a benchmark index at a time.

A batch is planned from an index (and optionally a top list naming the
predicted model to use per record), run on a pool of workers, and reported
as a summary with one line per record: either an RMSD or an "N/A (reason)"
annotation. A record that cannot be compared never stops the batch.

Two summaries can then be compared record by record with CompareSummaries.
*/
package bench
