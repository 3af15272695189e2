// Package tree turns flat query rows into a hierarchy keyed by their
// taxonomy path.
//
// Every row carries an ordered list of dimension values (its taxonomy
// path). [Build] walks each path from a synthetic root, creating a group
// node for every segment it has not seen at that level and attaching the
// row as payload at the final segment:
//
//	rows: [West A] [West B] [East A]
//
//	root
//	├── West
//	│   ├── A  (payload)
//	│   └── B  (payload)
//	└── East
//	    └── A  (payload)
//
// Children keep first-seen order. Two rows with the same full path collide
// and the later one wins; [Duplicates] lists such paths so callers can
// report them.
package tree
