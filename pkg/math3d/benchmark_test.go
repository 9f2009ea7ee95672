package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4Invert(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))
	var out Mat4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Invert(&out)
	}
}

func BenchmarkMat4InvertTranspose(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))
	var out Mat4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.InvertTranspose(&out)
	}
}

func BenchmarkSetRotate(b *testing.B) {
	var m Mat4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.SetRotate(30, 1, 2, 3)
	}
}

func BenchmarkVec4Normalize(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := V4(1, 2, 3, 4)
		_ = v.Normalize()
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 0, 10), V3(0, 0, 0), V3(0, 1, 0))
	proj := Perspective(1.0, 1.333, 0.1, 100.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = proj.Mul(view)
	}
}
