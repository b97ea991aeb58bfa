package rmsd

import (
	"errors"
	"fmt"
	"math"

	"github.com/QDockBank/Databank-Creation/pdb"
)

var (
	// ErrMismatch is matched by every *MismatchError.
	ErrMismatch = errors.New("atom count mismatch")

	// ErrEmpty is returned when there are no points to superimpose.
	ErrEmpty = errors.New("no atoms to superimpose")
)

// MismatchError is returned when the reference and candidate point sets do
// not have the same length.
type MismatchError struct {
	Reference, Candidate int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("atom count mismatch: pred=%d, real=%d",
		e.Candidate, e.Reference)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Alignment is the optimal rigid superposition of a candidate point set onto
// a reference point set.
//
// Rotation is always a proper rotation (its determinant is +1). Applying
// Rotation and then adding Translation to a candidate point moves it into
// the reference frame. Transformed is the candidate after that move.
type Alignment struct {
	RMSD        float64
	Rotation    Matrix3
	Translation pdb.Coords
	Transformed []pdb.Coords
}

// Apply moves the given points with the alignment's rigid transform. The
// input is not modified.
func (a *Alignment) Apply(coords []pdb.Coords) []pdb.Coords {
	moved := make([]pdb.Coords, len(coords))
	for i, p := range coords {
		moved[i] = add(a.Rotation.Apply(p), a.Translation)
	}
	return moved
}

// Align implements the Kabsch algorithm, which is described in detail here:
// http://cnx.org/content/m11608/latest/
//
// A brief, high-level overview:
//
// Center both point sets on their centroids.
//
// Compute the covariance matrix H = C^T R, where C and R are the centered
// candidate and reference points as Nx3 matrices.
//
// Compute the SVD of H = U S V^T.
//
// Compute d = sign(det(V U^T)).
//
// The optimal rotation is V diag(1, 1, d) U^T.
//
// The correction d is always applied when the naive solution is a
// reflection, even if the reflection would give a lower RMSD. Coplanar and
// mirror-symmetric point sets are where this matters.
//
// Align returns an error matching ErrMismatch if the lengths of reference and
// candidate differ, and ErrEmpty if they are both empty. A single point or a
// set of identical points yields the identity rotation. Neither input is
// modified.
func Align(reference, candidate []pdb.Coords) (*Alignment, error) {
	if len(reference) != len(candidate) {
		return nil, &MismatchError{
			Reference: len(reference),
			Candidate: len(candidate),
		}
	}
	if len(reference) == 0 {
		return nil, ErrEmpty
	}

	refCenter, candCenter := centroid(reference), centroid(candidate)
	ref := centered(reference, refCenter)
	cand := centered(candidate, candCenter)

	rot := Identity
	if H := covariance(cand, ref); !H.isZero() {
		if U, V, ok := H.svd(); ok {
			UT := U.Transpose()
			adjust := Identity
			if V.Mult(UT).Det() < 0 {
				adjust[8] = -1
			}
			rot = V.Mult(adjust).Mult(UT)
		}
	}

	var sum float64
	transformed := make([]pdb.Coords, len(cand))
	for i, p := range cand {
		moved := rot.Apply(p)
		sum += dist2(ref[i], moved)
		transformed[i] = add(moved, refCenter)
	}
	return &Alignment{
		RMSD:        math.Sqrt(sum / float64(len(ref))),
		Rotation:    rot,
		Translation: sub(refCenter, rot.Apply(candCenter)),
		Transformed: transformed,
	}, nil
}

// RMSD returns the minimal root-mean-square deviation between reference and
// candidate after optimal superposition. See Align for the error cases.
func RMSD(reference, candidate []pdb.Coords) (float64, error) {
	a, err := Align(reference, candidate)
	if err != nil {
		return 0, err
	}
	return a.RMSD, nil
}

// centroid calculates the average position of a set of points.
func centroid(coords []pdb.Coords) pdb.Coords {
	var c pdb.Coords
	for _, p := range coords {
		c[0] += p[0]
		c[1] += p[1]
		c[2] += p[2]
	}
	n := float64(len(coords))
	return pdb.Coords{c[0] / n, c[1] / n, c[2] / n}
}

func centered(coords []pdb.Coords, center pdb.Coords) []pdb.Coords {
	out := make([]pdb.Coords, len(coords))
	for i, p := range coords {
		out[i] = sub(p, center)
	}
	return out
}

func add(a, b pdb.Coords) pdb.Coords {
	return pdb.Coords{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b pdb.Coords) pdb.Coords {
	return pdb.Coords{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dist2(a, b pdb.Coords) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
