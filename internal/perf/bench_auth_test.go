package perf

import (
	"testing"
	"time"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/shared"
)

func BenchmarkTokenIssue(b *testing.B) {
	tokens := auth.NewTokenService("bench-secret", time.Hour, 720*time.Hour)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tokens.Issue(42, shared.RolePatient); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenVerify(b *testing.B) {
	tokens := auth.NewTokenService("bench-secret", time.Hour, 720*time.Hour)
	pair, err := tokens.Issue(42, shared.RoleDoctor)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tokens.Verify(pair.AccessToken, auth.KindAccess); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPasswordVerify(b *testing.B) {
	hash, err := auth.HashPassword("bench-password")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !auth.VerifyPassword(hash, "bench-password") {
			b.Fatal("password did not verify")
		}
	}
}
