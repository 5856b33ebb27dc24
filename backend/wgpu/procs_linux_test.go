//go:build linux && !(js && wasm)

package wgpu

import (
	"runtime"
	"testing"
	"unsafe"
)

func TestProcTableComplete(t *testing.T) {
	for id, sig := range procTable {
		if len(sig.names) == 0 {
			t.Errorf("proc %d has no name", id)
		}
		if sig.ret == nil {
			t.Errorf("proc %d (%v) has no return type", id, sig.names)
		}
	}
}

func TestProcsLoadReportsMissing(t *testing.T) {
	var p procs
	missing, err := p.load(func(string) unsafe.Pointer { return nil })
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if len(missing) != int(numProcs) {
		t.Errorf("load() missing = %d, want %d", len(missing), numProcs)
	}
	if p.has(procUniform4fv) {
		t.Error("has(Uniform4fv) = true for an unresolved entry point")
	}
	// Unresolved entry points are no-ops.
	p.call(procBlendBarrier, nil)
}

func TestFunctionsWithoutEntryPoints(t *testing.T) {
	f := &Functions{}
	if got := f.GetProgramResourceIndex(1, 2, "block"); got != ^uint32(0) {
		t.Errorf("GetProgramResourceIndex() = %#x, want GL_INVALID_INDEX", got)
	}
	if got := f.ClientWaitSync(1, 0, 0); got != 0x911D {
		t.Errorf("ClientWaitSync() = %#x, want GL_WAIT_FAILED", got)
	}
	if name, size, typ := f.GetActiveUniform(1, 0); name != "" || size != 0 || typ != 0 {
		t.Errorf("GetActiveUniform() = %q, %d, %d, want zero values", name, size, typ)
	}
	f.Uniform4fv(0, nil)
	f.UniformMatrix4fv(0, false, make([]float32, 3))
}

func TestCString(t *testing.T) {
	p := cString("glFoo")
	if got := goString(uintptr(unsafe.Pointer(p))); got != "glFoo" {
		t.Errorf("goString(cString()) = %q, want %q", got, "glFoo")
	}
	if got := ptrFromUintptr(uintptr(unsafe.Pointer(p))); got != p {
		t.Errorf("ptrFromUintptr() = %p, want %p", got, p)
	}
	runtime.KeepAlive(p)
	if got := goString(0); got != "" {
		t.Errorf("goString(0) = %q, want empty", got)
	}
}
