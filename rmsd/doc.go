/*
Package rmsd implements a version of the Kabsch algorithm that is described
in detail here: http://cnx.org/content/m11608/latest/

Align superimposes a candidate point set onto a reference point set of the
same length and reports the residual RMSD, the proper rotation and
translation used, and the moved candidate. Mismatched or empty inputs are
reported as errors (ErrMismatch, ErrEmpty) rather than panics, so batch
callers can record them and move on.

A convenience function for computing the RMSD of residue ranges from two PDB
entries is also provided.
*/
package rmsd
