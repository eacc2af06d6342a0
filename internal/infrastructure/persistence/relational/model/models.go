package model

// All lists every table the application owns, in migration order.
func All() []any {
	return []any{
		&User{},
		&Complaint{},
		&ComplaintStatusHistory{},
		&AuditLog{},
		&KanbanBoard{},
		&KanbanColumn{},
		&KanbanCard{},
		&CacheEntry{},
	}
}
