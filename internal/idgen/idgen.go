package idgen

import "github.com/bwmarrin/snowflake"

// Generator mints time-ordered unique record ids.
type Generator struct {
	node *snowflake.Node
}

// New creates a generator for the given node id (0-1023).
func New(nodeID int64) (*Generator, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: n}, nil
}

// NextID returns a new snowflake id in decimal form.
func (g *Generator) NextID() string {
	return g.node.Generate().String()
}
