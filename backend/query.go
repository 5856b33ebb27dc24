package backend

import (
	"time"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

type queryObj struct {
	id     uint32
	typ    QueryType
	active bool
}

func queryCap(t QueryType) Cap {
	if t == QueryTimeElapsed {
		return CapTimerQuery
	}
	return CapSampleQuery
}

// CreateQuery creates a query object of the given type.
func (b *Backend) CreateQuery(t QueryType) QueryHandle {
	if !b.require(queryCap(t), "CreateQuery") {
		return QueryHandle{}
	}
	id := b.queryGL.GenQueries(1)
	if id == 0 {
		slogger().Error("GenQueries failed")
		return QueryHandle{}
	}
	return QueryHandle{b.queries.insert(queryObj{id: id, typ: t})}
}

// ReleaseQuery deletes a query object.
func (b *Backend) ReleaseQuery(h QueryHandle) {
	if !b.require(CapSampleQuery, "ReleaseQuery") {
		return
	}
	q, ok := b.queries.remove(h.handle)
	if !ok {
		b.stale("ReleaseQuery", h.handle)
		return
	}
	b.queryGL.DeleteQueries(q.id)
}

// BeginQuery starts measuring.
func (b *Backend) BeginQuery(h QueryHandle) {
	if !b.require(CapSampleQuery, "BeginQuery") {
		return
	}
	q, ok := b.queries.get(h.handle)
	if !ok {
		b.stale("BeginQuery", h.handle)
		return
	}
	if !b.assert(!q.active, "query already active", "op", "BeginQuery", "query", h.String()) {
		return
	}
	b.queryGL.BeginQuery(glQueryTarget(q.typ), q.id)
	q.active = true
}

// EndQuery stops measuring.
func (b *Backend) EndQuery(h QueryHandle) {
	if !b.require(CapSampleQuery, "EndQuery") {
		return
	}
	q, ok := b.queries.get(h.handle)
	if !ok {
		b.stale("EndQuery", h.handle)
		return
	}
	if !q.active {
		return
	}
	b.queryGL.EndQuery(glQueryTarget(q.typ))
	q.active = false
}

// QueryTimestamp records the GPU time into a timer query once all
// previous commands complete.
func (b *Backend) QueryTimestamp(h QueryHandle) {
	if !b.require(CapTimerQuery, "QueryTimestamp") {
		return
	}
	q, ok := b.queries.get(h.handle)
	if !ok {
		b.stale("QueryTimestamp", h.handle)
		return
	}
	b.queryGL.QueryCounter(q.id, glTimestamp)
}

// QueryResultAvailable reports whether the result of a query can be read
// without stalling.
func (b *Backend) QueryResultAvailable(h QueryHandle) bool {
	if !b.require(CapSampleQuery, "QueryResultAvailable") {
		return false
	}
	q, ok := b.queries.get(h.handle)
	if !ok {
		b.stale("QueryResultAvailable", h.handle)
		return false
	}
	var avail uint32
	b.queryGL.GetQueryObjectuiv(q.id, glQueryResultAvailable, &avail)
	return avail != 0
}

// QueryResult reads the result of a query, blocking until it is
// available. Timer results are in nanoseconds.
func (b *Backend) QueryResult(h QueryHandle) (uint64, bool) {
	if !b.require(CapSampleQuery, "QueryResult") {
		return 0, false
	}
	q, ok := b.queries.get(h.handle)
	if !ok {
		b.stale("QueryResult", h.handle)
		return 0, false
	}
	if q.typ == QueryTimeElapsed {
		var v uint64
		b.queryGL.GetQueryObjectui64v(q.id, glQueryResult, &v)
		return v, true
	}
	var v uint32
	b.queryGL.GetQueryObjectuiv(q.id, glQueryResult, &v)
	return uint64(v), true
}

// CreateSync inserts a fence after the commands issued so far.
func (b *Backend) CreateSync() SyncHandle {
	if !b.require(CapCommandSync, "CreateSync") {
		return SyncHandle{}
	}
	s := b.syncGL.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	if s == 0 {
		slogger().Error("FenceSync failed")
		return SyncHandle{}
	}
	return SyncHandle{b.syncs.insert(s)}
}

// ReleaseSync deletes a fence.
func (b *Backend) ReleaseSync(h SyncHandle) {
	if !b.require(CapCommandSync, "ReleaseSync") {
		return
	}
	s, ok := b.syncs.remove(h.handle)
	if !ok {
		b.stale("ReleaseSync", h.handle)
		return
	}
	b.syncGL.DeleteSync(s)
}

// WaitSync makes the GPU wait for a fence without blocking the caller.
func (b *Backend) WaitSync(h SyncHandle) {
	if !b.require(CapCommandSync, "WaitSync") {
		return
	}
	s, ok := b.syncs.get(h.handle)
	if !ok {
		b.stale("WaitSync", h.handle)
		return
	}
	b.syncGL.WaitSync(*s, 0, gl.TIMEOUT_IGNORED)
}

// ClientWaitSync blocks up to timeout for a fence and reports whether it
// was signalled.
func (b *Backend) ClientWaitSync(h SyncHandle, timeout time.Duration) bool {
	if !b.require(CapCommandSync, "ClientWaitSync") {
		return false
	}
	s, ok := b.syncs.get(h.handle)
	if !ok {
		b.stale("ClientWaitSync", h.handle)
		return false
	}
	switch b.syncGL.ClientWaitSync(*s, gl.SYNC_FLUSH_COMMANDS_BIT, uint64(max(timeout, 0))) {
	case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
		return true
	case gl.WAIT_FAILED:
		b.checkError("ClientWaitSync")
	}
	return false
}
