package repository

import (
	"bytes"
	"sync"
)

// archivePool reuses the buffers batch archives are assembled in. A batch is
// capped, so buffers settle at roughly one batch worth of payload.
var archivePool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func getBuffer() *bytes.Buffer {
	buf := archivePool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	archivePool.Put(buf)
}
