package rmsd

import (
	"github.com/QDockBank/Databank-Creation/pdb"

	"gonum.org/v1/gonum/mat"
)

// Matrix3 represents a 3x3 matrix, in row-major order
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
type Matrix3 [9]float64

// Identity is the 3x3 identity matrix.
var Identity = Matrix3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

func (a Matrix3) Mult(b Matrix3) Matrix3 {
	return Matrix3{
		a[0]*b[0] + a[1]*b[3] + a[2]*b[6],
		a[0]*b[1] + a[1]*b[4] + a[2]*b[7],
		a[0]*b[2] + a[1]*b[5] + a[2]*b[8],

		a[3]*b[0] + a[4]*b[3] + a[5]*b[6],
		a[3]*b[1] + a[4]*b[4] + a[5]*b[7],
		a[3]*b[2] + a[4]*b[5] + a[5]*b[8],

		a[6]*b[0] + a[7]*b[3] + a[8]*b[6],
		a[6]*b[1] + a[7]*b[4] + a[8]*b[7],
		a[6]*b[2] + a[7]*b[5] + a[8]*b[8],
	}
}

func (a Matrix3) Transpose() Matrix3 {
	return Matrix3{
		a[0], a[3], a[6],
		a[1], a[4], a[7],
		a[2], a[5], a[8],
	}
}

func (a Matrix3) Det() float64 {
	// 048 + 156 + 237 - 246 - 138 - 057
	return a[0]*a[4]*a[8] +
		a[1]*a[5]*a[6] +
		a[2]*a[3]*a[7] -
		a[2]*a[4]*a[6] -
		a[1]*a[3]*a[8] -
		a[0]*a[5]*a[7]
}

// Apply returns the matrix-vector product a*p.
func (a Matrix3) Apply(p pdb.Coords) pdb.Coords {
	return pdb.Coords{
		a[0]*p[0] + a[1]*p[1] + a[2]*p[2],
		a[3]*p[0] + a[4]*p[1] + a[5]*p[2],
		a[6]*p[0] + a[7]*p[1] + a[8]*p[2],
	}
}

func (a Matrix3) isZero() bool {
	return a == Matrix3{}
}

// covariance computes the 3x3 matrix sum_k a_k * b_k^T, i.e., A^T B when
// a and b are read as Nx3 matrices.
func covariance(a, b []pdb.Coords) Matrix3 {
	var C Matrix3
	for k := range a {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				C[r*3+c] += a[k][r] * b[k][c]
			}
		}
	}
	return C
}

// svd computes the full singular value decomposition A = U*S*V^T and returns
// U and V. ok is false if the factorization did not converge.
func (a Matrix3) svd() (U, V Matrix3, ok bool) {
	var f mat.SVD
	if !f.Factorize(mat.NewDense(3, 3, a[:]), mat.SVDFull) {
		return Identity, Identity, false
	}
	var u, v mat.Dense
	f.UTo(&u)
	f.VTo(&v)
	return fromDense(&u), fromDense(&v), true
}

func fromDense(m mat.Matrix) Matrix3 {
	var a Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			a[r*3+c] = m.At(r, c)
		}
	}
	return a
}
