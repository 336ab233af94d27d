// Package todo holds the task model and the in-memory repository that the
// command handlers mutate.
//
// A task as it appears in tasks.json:
//
//	{
//	  "Id": 1,
//	  "Description": "Buy milk",
//	  "Status": "todo",
//	  "CreatedAt": "2024-01-01T09:30:00.123456+02:00",
//	  "UpdatedAt": "2024-01-01T09:30:00.123456+02:00"
//	}
//
// # Identity
//
// IDs are dense: after every successful operation the collection holds
// exactly the IDs 1..N. Add assigns max(ID)+1 and Remove renumbers the
// survivors in their current order, so an ID names a position, not a task.
//
// # Task Status Values
//
//   - "todo": not started (the status of every new task)
//   - "in-progress": being worked on
//   - "done": complete
package todo
