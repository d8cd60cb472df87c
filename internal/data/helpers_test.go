package data

func strPtr(s string) *string { return &s }
