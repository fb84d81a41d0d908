//go:build linux

package thread

import "testing"

func TestLocalKey_ThreadAffinity(t *testing.T) {
	key := CreateLocalKey()
	defer DeleteLocalKey(key)

	set := make(chan struct{})
	observed := make(chan any, 1)

	t1 := New(Options{Name: "tls-writer"}, func() {
		SetLocal(key, 7)
		if got := GetLocal(key); got != 7 {
			t.Errorf("writer thread read back %v, want 7", got)
		}
		close(set)
	})
	if !t1.Start() {
		t.Fatal("Start refused")
	}
	<-set

	// A thread that never set the key must observe the unset sentinel,
	// not the writer's value.
	t2 := New(Options{Name: "tls-reader"}, func() {
		observed <- GetLocal(key)
	})
	if !t2.Start() {
		t.Fatal("Start refused")
	}
	t1.Join()
	t2.Join()

	if got := <-observed; got != nil {
		t.Fatalf("fresh thread observed %v, want nil sentinel", got)
	}
}

func TestLocalKey_BindCurrentThread(t *testing.T) {
	release := BindCurrentThread()
	defer release()

	key := CreateLocalKey()
	defer DeleteLocalKey(key)

	if got := GetLocal(key); got != nil {
		t.Fatalf("fresh key read %v, want nil", got)
	}
	SetLocal(key, "bound")
	if got := GetLocal(key); got != "bound" {
		t.Fatalf("read back %v, want %q", got, "bound")
	}
}

func TestDeleteLocalKey_ClearsValues(t *testing.T) {
	release := BindCurrentThread()
	defer release()

	key := CreateLocalKey()
	SetLocal(key, 99)
	DeleteLocalKey(key)

	// The index may be handed out again; the stale value must be gone.
	again := CreateLocalKey()
	defer DeleteLocalKey(again)
	if again == key {
		if got := GetLocal(again); got != nil {
			t.Fatalf("reused key leaked stale value %v", got)
		}
	}
}

func TestLocalKey_UnallocatedPanics(t *testing.T) {
	release := BindCurrentThread()
	defer release()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unallocated key")
		}
	}()
	GetLocal(LocalKey(maxLocalKeys - 1))
}

func TestSetLocal_UnboundThreadPanics(t *testing.T) {
	key := CreateLocalKey()
	defer DeleteLocalKey(key)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for SetLocal without a fixed thread identity")
		}
	}()
	SetLocal(key, 1)
}

func TestCreateLocalKey_DistinctKeys(t *testing.T) {
	a := CreateLocalKey()
	b := CreateLocalKey()
	defer DeleteLocalKey(a)
	defer DeleteLocalKey(b)

	if a == b {
		t.Fatalf("CreateLocalKey returned duplicate key %d", a)
	}
}
