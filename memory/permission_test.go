package memory

import "testing"

func TestPermission_ProtDistinct(t *testing.T) {
	all := []Permission{
		NoAccess, NoAccessWillExecuteLater, Read, ReadWrite, ReadExecute, ReadWriteExecute,
	}

	seen := make(map[int][]Permission)
	for _, p := range all {
		prot := p.prot()
		seen[prot] = append(seen[prot], p)
	}

	for prot, perms := range seen {
		if len(perms) == 1 {
			continue
		}
		// The only intentional collapse: both no-access variants share
		// an inaccessible protection.
		if len(perms) == 2 &&
			((perms[0] == NoAccess && perms[1] == NoAccessWillExecuteLater) ||
				(perms[0] == NoAccessWillExecuteLater && perms[1] == NoAccess)) {
			continue
		}
		t.Errorf("permissions %v collapse to the same protection 0x%x", perms, prot)
	}
}

func TestPermission_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for permission outside the closed set")
		}
	}()
	_ = Permission(99).prot()
}

func TestPermission_String(t *testing.T) {
	if got := ReadWriteExecute.String(); got != "read-write-execute" {
		t.Fatalf("String() = %q", got)
	}
	if got := NoAccessWillExecuteLater.String(); got != "no-access-will-execute-later" {
		t.Fatalf("String() = %q", got)
	}
}

func TestPermission_Executable(t *testing.T) {
	for _, p := range []Permission{NoAccess, NoAccessWillExecuteLater, Read, ReadWrite} {
		if p.executable() {
			t.Errorf("%v reported executable", p)
		}
	}
	for _, p := range []Permission{ReadExecute, ReadWriteExecute} {
		if !p.executable() {
			t.Errorf("%v reported non-executable", p)
		}
	}
}
