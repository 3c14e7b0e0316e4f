// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SupportContactMessageTable represents the 'support.contactmessage' table
type SupportContactMessageTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	IPAddress string
	CreatedAt string
}

// SupportContactMessage is the schema definition for support.contactmessage
var SupportContactMessage = SupportContactMessageTable{
	Table:     "support.contactmessage",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Subject:   "subject",
	Message:   "message",
	IPAddress: "ipaddress",
	CreatedAt: "createdat",
}
