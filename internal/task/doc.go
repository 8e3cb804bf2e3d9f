// Package task holds the task record model and the file-backed task store.
//
// The store file (.taskr/tasks.json by default) looks like:
//
//	{
//	  "next_id": 4,
//	  "tasks": [
//	    {"id": 1, "title": "Buy milk", "priority": "low", "done": false},
//	    {
//	      "id": 3,
//	      "title": "Write report",
//	      "description": "Quarterly numbers",
//	      "priority": "high",
//	      "due_date": "2026-10-31",
//	      "done": true
//	    }
//	  ]
//	}
//
// A bare array of task objects is also accepted on load.
//
// # Identifiers
//
// Identifiers are positive integers and are never reused. The store keeps a
// high-water mark (next_id) so that removing the newest task, or every task,
// does not hand its identifier to the next Add.
//
// # Optional Fields
//
// description and due_date are omitted when unset. An empty description is
// kept as "" so that save followed by load reproduces the collection exactly.
//
// # File Format
//
// When writing the store, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - A temp file in the same directory renamed over the target
package task
