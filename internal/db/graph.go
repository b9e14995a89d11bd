package db

// PathQuery describes a traversal along one relation type.
type PathQuery struct {
	StartID   string
	Label     string // node label, e.g. Step
	IDProp    string // property holding the node id, e.g. nodeId
	TitleProp string // property holding the display title
	Relation  string // relation type to follow, e.g. NEXT
	MaxNodes  int    // upper bound on returned nodes, start node included
}

// PathNode is a raw node returned by a traversal.
type PathNode struct {
	ID    string
	Title string
}
