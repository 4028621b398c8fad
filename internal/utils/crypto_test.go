package utils

import (
	"strings"
	"testing"
)

// Low-cost parameters keep the tests fast; correctness does not depend
// on the work factor.
func testHasher() *Hasher {
	return NewHasher(8*1024, 1, 1)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := testHasher().Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Errorf("hash has unexpected format: %q", hash)
	}

	ok, err := VerifyPassword("correct-horse", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashSaltsEveryCall(t *testing.T) {
	h := testHasher()
	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyAcrossParameterChange(t *testing.T) {
	old, err := NewHasher(8*1024, 1, 1).Hash("correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	// Verification reads its parameters from the stored hash, so hashes
	// minted under the old costs survive a configuration bump.
	ok, err := VerifyPassword("correct-horse", old)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("hash minted with different parameters did not verify")
	}
}

func TestNewHasherZeroFallsBackToDefaults(t *testing.T) {
	h := NewHasher(0, 0, 0)
	if h.memoryKiB != DefaultHashMemoryKiB || h.iterations != DefaultHashIterations || h.parallelism != DefaultHashParallelism {
		t.Errorf("NewHasher(0,0,0) = %+v, want defaults", h)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA",
	} {
		if _, err := VerifyPassword("anything", hash); err == nil {
			t.Errorf("VerifyPassword with hash %q should fail", hash)
		}
	}
}
