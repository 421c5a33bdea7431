package hal

// Bump-pointer arenas. There is no per-allocation free; memory is
// reclaimed only by Reset or by rolling back to a Mark. Allocation is
// a cursor increment, so it is safe to call from per-frame code.

// Default region sizes for the standard three-arena set.
const (
	ArenaPersistentSize = 8192
	ArenaSceneSize      = 24576
	ArenaFrameSize      = 4096
)

const arenaAlign = 4

// Arena allocates from a fixed backing buffer by bumping a cursor.
type Arena struct {
	buf    []byte
	cursor int
}

// NewArena wraps an existing buffer. The arena owns the buffer for its
// lifetime; callers must not allocate from it by other means.
func NewArena(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// NewArenaSize allocates a fresh backing buffer of the given size.
func NewArenaSize(size int) *Arena {
	return NewArena(make([]byte, size))
}

// Alloc returns a zeroed slice of the requested size. The size rounds
// up to a 4-byte multiple, so every block starts aligned. Returns nil
// when the arena cannot satisfy the request; the cursor is untouched
// in that case.
func (a *Arena) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	padded := (size + arenaAlign - 1) &^ (arenaAlign - 1)
	start := a.cursor
	if start+padded > len(a.buf) {
		return nil
	}

	a.cursor = start + padded
	block := a.buf[start : start+size : start+size]
	for i := range block {
		block[i] = 0
	}
	return block
}

// Reset discards every allocation at once.
func (a *Arena) Reset() {
	a.cursor = 0
}

// Mark captures the current cursor for a later Restore.
func (a *Arena) Mark() int {
	return a.cursor
}

// Restore rolls the cursor back to a previous Mark, discarding every
// allocation made since. Marks taken after the one being restored are
// invalidated.
func (a *Arena) Restore(mark int) {
	if mark < 0 || mark > len(a.buf) {
		return
	}
	a.cursor = mark
}

// Used returns the number of bytes consumed, including alignment
// padding.
func (a *Arena) Used() int {
	return a.cursor
}

// Remaining returns the bytes left before exhaustion, ignoring future
// alignment padding.
func (a *Arena) Remaining() int {
	return len(a.buf) - a.cursor
}

// Size returns the total capacity of the backing buffer.
func (a *Arena) Size() int {
	return len(a.buf)
}

// ArenaSet groups the three standard lifetime tiers. Persistent lives
// for the whole program, Scene is reset on scene transitions, Frame is
// reset every frame by HAL.FrameStart.
type ArenaSet struct {
	Persistent *Arena
	Scene      *Arena
	Frame      *Arena
}

func NewArenaSet(persistentSize, sceneSize, frameSize int) *ArenaSet {
	return &ArenaSet{
		Persistent: NewArenaSize(persistentSize),
		Scene:      NewArenaSize(sceneSize),
		Frame:      NewArenaSize(frameSize),
	}
}
