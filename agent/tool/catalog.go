package tool

import (
	"github.com/cloudwego/eino/schema"
)

const (
	ToolRegisterUser           = "register_user"
	ToolBookAppointment        = "book_appointment"
	ToolCheckAppointmentStatus = "check_appointment_status"
	ToolCancelAppointment      = "cancel_appointment"
)

type Param struct {
	Name string
	Type schema.DataType
	Desc string
}

// Descriptor describes one tool offered to the model. Every parameter is required.
type Descriptor struct {
	Name   string
	Desc   string
	Params []Param
}

var catalog = []Descriptor{
	{
		Name: ToolRegisterUser,
		Desc: "Register a new user with name and date of birth. Returns the user id; registering the same person again returns the existing id.",
		Params: []Param{
			{Name: "name", Type: schema.String, Desc: "Full name of the user"},
			{Name: "date_of_birth", Type: schema.String, Desc: "Date of birth as YYYY-MM-DD or DD Month YYYY"},
		},
	},
	{
		Name: ToolBookAppointment,
		Desc: "Book an appointment for a registered user.",
		Params: []Param{
			{Name: "user_id", Type: schema.Integer, Desc: "Id of a registered user"},
			{Name: "appointment_date", Type: schema.String, Desc: "Appointment date as YYYY-MM-DD or DD Month YYYY"},
			{Name: "appointment_time", Type: schema.String, Desc: "Appointment time as HH:MM (24h) or HH:MM AM/PM"},
			{Name: "purpose", Type: schema.String, Desc: "Reason for the appointment"},
		},
	},
	{
		Name: ToolCheckAppointmentStatus,
		Desc: "Get the most recent appointment of a user and its status.",
		Params: []Param{
			{Name: "user_id", Type: schema.Integer, Desc: "Id of a registered user"},
		},
	},
	{
		Name: ToolCancelAppointment,
		Desc: "Cancel the most recent active appointment of a user.",
		Params: []Param{
			{Name: "user_id", Type: schema.Integer, Desc: "Id of a registered user"},
		},
	},
}

// Catalog returns a copy of the descriptors in their fixed order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, d := range catalog {
		d.Params = append([]Param(nil), d.Params...)
		out[i] = d
	}
	return out
}

func Lookup(name string) (Descriptor, bool) {
	for _, d := range Catalog() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Infos converts the catalog into eino tool infos for binding to a chat model.
func Infos() []*schema.ToolInfo {
	descs := Catalog()
	infos := make([]*schema.ToolInfo, 0, len(descs))
	for _, d := range descs {
		infos = append(infos, d.ToolInfo())
	}
	return infos
}

func (d Descriptor) ToolInfo() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(d.Params))
	for _, p := range d.Params {
		params[p.Name] = &schema.ParameterInfo{Type: p.Type, Desc: p.Desc, Required: true}
	}
	return &schema.ToolInfo{
		Name:        d.Name,
		Desc:        d.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

// JSONSchema renders the parameters as a JSON schema object for function-calling APIs.
func (d Descriptor) JSONSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Desc,
		}
		required = append(required, p.Name)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
