package rope

type chunkIterFrame struct {
	node *Node
	next int // next child or chunk index to visit
}

// ChunkIterator walks the chunks of a rope in document order.
type ChunkIterator struct {
	stack      []chunkIterFrame
	chunk      Chunk
	chunkStart ByteOffset
	nextStart  ByteOffset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]chunkIterFrame, 0, 16)}
	if r.root != nil {
		it.stack = append(it.stack, chunkIterFrame{node: r.root})
	}
	return it
}

// Next advances to the next non-empty chunk.
// Returns false once iteration is complete.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		node := top.node

		if node.IsLeaf() {
			if top.next < len(node.chunks) {
				c := node.chunks[top.next]
				top.next++
				if c.IsEmpty() {
					continue
				}
				it.chunk = c
				it.chunkStart = it.nextStart
				it.nextStart += ByteOffset(c.Len())
				return true
			}
		} else if top.next < len(node.children) {
			child := node.children[top.next]
			top.next++
			it.stack = append(it.stack, chunkIterFrame{node: child})
			continue
		}

		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.chunkStart
}
