package rope

import (
	"io"
	"strings"
)

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope B+ tree.
// Leaf nodes (height == 0) hold chunks; internal nodes hold children.
// Nodes are never mutated after construction.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{summary: TextSummary{Flags: FlagASCII}}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.summary = TextSummary{Flags: FlagASCII}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	var height uint8
	summaries := make([]TextSummary, len(children))
	total := TextSummary{Flags: FlagASCII}
	for i, child := range children {
		height = max(height, child.height+1)
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         height,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.data)
		}
		return
	}
	for _, child := range n.children {
		child.writeTo(sb)
	}
}

func (n *Node) streamTo(w io.Writer, written *int64) error {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			k, err := io.WriteString(w, c.data)
			*written += int64(k)
			if err != nil {
				return err
			}
		}
		return nil
	}
	for _, child := range n.children {
		if err := child.streamTo(w, written); err != nil {
			return err
		}
	}
	return nil
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	var offset ByteOffset
	if n.IsLeaf() {
		for _, c := range n.chunks {
			chunkEnd := offset + ByteOffset(len(c.data))
			if chunkEnd > start && offset < end {
				lo := int(max(start, offset) - offset)
				hi := int(min(end, chunkEnd) - offset)
				sb.WriteString(c.data[lo:hi])
			}
			if chunkEnd >= end {
				return
			}
			offset = chunkEnd
		}
		return
	}

	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Bytes
		if childEnd > start && offset < end {
			lo := max(start, offset) - offset
			hi := min(end, childEnd) - offset
			child.appendRange(sb, lo, hi)
		}
		if childEnd >= end {
			return
		}
		offset = childEnd
	}
}

// split splits the node at the given byte offset.
// The left node holds [0, offset), the right node holds [offset, Len).
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	if offset == 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset ByteOffset) (*Node, *Node) {
	var left, right []Chunk
	var pos ByteOffset

	for _, c := range n.chunks {
		size := ByteOffset(len(c.data))
		switch {
		case pos+size <= offset:
			left = append(left, c)
		case pos >= offset:
			right = append(right, c)
		default:
			l, r := c.Split(int(offset - pos))
			if !l.IsEmpty() {
				left = append(left, l)
			}
			if !r.IsEmpty() {
				right = append(right, r)
			}
		}
		pos += size
	}

	return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
}

func (n *Node) splitInternal(offset ByteOffset) (*Node, *Node) {
	var left, right []*Node
	var l, r *Node
	var pos ByteOffset

	for i, child := range n.children {
		size := n.childSummaries[i].Bytes
		switch {
		case pos+size <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r = child.split(offset - pos)
		}
		pos += size
	}

	// The straddling child's halves may be shorter than their former
	// siblings; concat grafts them back at the matching height.
	return concat(buildNodeFromChildren(left), l), concat(r, buildNodeFromChildren(right))
}

// buildNodeFromChildren creates a tree over a list of sibling nodes of
// equal height, adding levels until a single root remains.
func buildNodeFromChildren(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	for len(children) > 1 {
		children = groupNodes(children)
	}
	return children[0]
}

// groupNodes distributes siblings evenly over as few parents as
// MaxChildren allows.
func groupNodes(children []*Node) []*Node {
	parents := make([]*Node, 0, len(children)/MaxChildren+1)
	for _, g := range evenGroups(len(children), MaxChildren) {
		group := make([]*Node, g[1]-g[0])
		copy(group, children[g[0]:g[1]])
		parents = append(parents, newInternalNode(group))
	}
	return parents
}

// groupChunks distributes chunks evenly over as few leaves as
// MaxChunksPerLeaf allows.
func groupChunks(chunks []Chunk) []*Node {
	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for _, g := range evenGroups(len(chunks), MaxChunksPerLeaf) {
		group := make([]Chunk, g[1]-g[0])
		copy(group, chunks[g[0]:g[1]])
		leaves = append(leaves, newLeafNodeWithChunks(group))
	}
	return leaves
}

// evenGroups splits n items into ceil(n/limit) half-open ranges whose
// sizes differ by at most one.
func evenGroups(n, limit int) [][2]int {
	count := (n + limit - 1) / limit
	groups := make([][2]int, 0, count)
	start := 0
	for i := 0; i < count; i++ {
		size := n / count
		if i < n%count {
			size++
		}
		groups = append(groups, [2]int{start, start + size})
		start += size
	}
	return groups
}

// concat joins two nodes, left before right. All children of an internal
// node share one height, and every internal node built here has at least
// two children, so the height stays logarithmic in the chunk count.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	nodes := concatNodes(left, right)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternalNode(nodes)
}

// concatNodes joins left and right into one or two nodes whose height is
// the greater of the two. The seam is merged at every level so that small
// nodes and chunks left behind by splits are absorbed by their neighbours.
func concatNodes(left, right *Node) []*Node {
	switch {
	case left.height > right.height:
		last := len(left.children) - 1
		children := make([]*Node, 0, len(left.children)+1)
		children = append(children, left.children[:last]...)
		children = append(children, concatNodes(left.children[last], right)...)
		return groupNodes(children)

	case right.height > left.height:
		children := make([]*Node, 0, len(right.children)+1)
		children = append(children, concatNodes(left, right.children[0])...)
		children = append(children, right.children[1:]...)
		return groupNodes(children)

	case left.IsLeaf():
		chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return groupChunks(normalizeChunks(chunks))
	}

	last := len(left.children) - 1
	children := make([]*Node, 0, len(left.children)+len(right.children))
	children = append(children, left.children[:last]...)
	children = append(children, concatNodes(left.children[last], right.children[0])...)
	children = append(children, right.children[1:]...)
	return groupNodes(children)
}

// normalizeChunks merges every chunk below MinChunkSize into a neighbour.
// A lone small chunk is kept.
func normalizeChunks(chunks []Chunk) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if n := len(out); n > 0 && (out[n-1].Len() < MinChunkSize || c.Len() < MinChunkSize) {
			out = append(out[:n-1], joinChunks(out[n-1], c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// joinChunks merges two adjacent chunks when either is below MinChunkSize.
// A merged run too long for one chunk is cut in half instead.
func joinChunks(a, b Chunk) []Chunk {
	if a.Len() >= MinChunkSize && b.Len() >= MinChunkSize {
		return []Chunk{a, b}
	}
	s := a.data + b.data
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}
	at := findUTF8Boundary(s, len(s)/2)
	return []Chunk{NewChunk(s[:at]), NewChunk(s[at:])}
}

// charToByte returns the byte offset of character ch within the subtree.
// Offsets past the end resolve to Len.
func (n *Node) charToByte(ch CharOffset) ByteOffset {
	if n.summary.IsASCII() {
		return min(ByteOffset(ch), n.summary.Bytes)
	}

	var base ByteOffset
	node := n
	for !node.IsLeaf() {
		last := len(node.children) - 1
		i := 0
		for ; i < last; i++ {
			s := node.childSummaries[i]
			if ch < s.Chars {
				break
			}
			ch -= s.Chars
			base += s.Bytes
		}
		node = node.children[i]
	}

	for _, c := range node.chunks {
		if ch <= c.summary.Chars {
			return base + ByteOffset(byteIndexOfChar(c.data, ch, c.summary.IsASCII()))
		}
		ch -= c.summary.Chars
		base += c.summary.Bytes
	}
	return base
}

// lineStart returns the byte offset just past the line-th newline.
// line must be in [1, summary.Lines].
func (n *Node) lineStart(line uint32) ByteOffset {
	var base ByteOffset
	node := n
	for !node.IsLeaf() {
		last := len(node.children) - 1
		i := 0
		for ; i < last; i++ {
			s := node.childSummaries[i]
			if line <= s.Lines {
				break
			}
			line -= s.Lines
			base += s.Bytes
		}
		node = node.children[i]
	}

	for _, c := range node.chunks {
		if line <= c.summary.Lines {
			return base + ByteOffset(FindNthNewline(c.data, line)+1)
		}
		line -= c.summary.Lines
		base += c.summary.Bytes
	}
	return base
}
