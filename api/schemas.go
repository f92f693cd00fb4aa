package api

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/qri-io/jsonschema"
)

// Request schemas, keyed by name. Field names follow the camelCase JSON of
// pkg/dto.
var schemaSources = map[string]string{
	"register": `{
		"type": "object",
		"required": ["email", "password", "role"],
		"properties": {
			"email": {"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$", "maxLength": 254},
			"password": {"type": "string", "minLength": 6, "maxLength": 128},
			"phoneNumber": {"type": "string", "maxLength": 32},
			"role": {"type": "string", "enum": ["Candidate", "Company"]},
			"firstName": {"type": "string", "maxLength": 100},
			"lastName": {"type": "string", "maxLength": 100},
			"companyName": {"type": "string", "maxLength": 200}
		}
	}`,
	"login": `{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		}
	}`,
	"company": `{
		"type": "object",
		"required": ["companyName"],
		"properties": {
			"companyName": {"type": "string", "minLength": 1, "maxLength": 200},
			"description": {"type": "string", "maxLength": 4000},
			"website": {"type": "string", "maxLength": 500},
			"countryId": {"type": ["integer", "null"], "minimum": 1},
			"cityId": {"type": ["integer", "null"], "minimum": 1},
			"logoUrl": {"type": "string", "maxLength": 1000},
			"userId": {"type": "integer", "minimum": 0}
		}
	}`,
	"candidate": `{
		"type": "object",
		"required": ["firstName", "lastName"],
		"properties": {
			"firstName": {"type": "string", "minLength": 1, "maxLength": 100},
			"lastName": {"type": "string", "minLength": 1, "maxLength": 100}
		}
	}`,
	"skillIds": `{
		"type": "object",
		"required": ["skillIds"],
		"properties": {
			"skillIds": {"type": "array", "items": {"type": "integer", "minimum": 1}}
		}
	}`,
	"job": `{
		"type": "object",
		"required": ["title", "description"],
		"properties": {
			"title": {"type": "string", "minLength": 1, "maxLength": 200},
			"description": {"type": "string", "minLength": 1, "maxLength": 10000},
			"salary": {"type": "string", "maxLength": 100},
			"employmentType": {"type": "string", "maxLength": 50},
			"expirationDate": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}([Tt][0-9:.]+([Zz]|[+-][0-9]{2}:[0-9]{2}))?$"},
			"industryId": {"type": ["integer", "null"], "minimum": 1},
			"countryId": {"type": ["integer", "null"], "minimum": 1},
			"cityId": {"type": ["integer", "null"], "minimum": 1},
			"skillIds": {"type": "array", "items": {"type": "integer", "minimum": 1}},
			"companyId": {"type": "integer", "minimum": 0}
		}
	}`,
	"apply": `{
		"type": "object",
		"required": ["jobId"],
		"properties": {
			"jobId": {"type": "integer", "minimum": 1},
			"resumeId": {"type": ["integer", "null"], "minimum": 1},
			"notes": {"type": "string", "maxLength": 2000}
		}
	}`,
	"status": `{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "enum": ["Pending", "Reviewed", "Accepted", "Rejected"]}
		}
	}`,
	"resume": `{
		"type": "object",
		"required": ["fileName", "fileUrl"],
		"properties": {
			"fileName": {"type": "string", "minLength": 1, "maxLength": 255},
			"fileUrl": {"type": "string", "minLength": 1, "maxLength": 1000},
			"isDefault": {"type": "boolean"}
		}
	}`,
	"country": `{
		"type": "object",
		"required": ["name", "code"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "maxLength": 100},
			"code": {"type": "string", "minLength": 2, "maxLength": 3}
		}
	}`,
	"city": `{
		"type": "object",
		"required": ["name", "countryId"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "maxLength": 100},
			"countryId": {"type": "integer", "minimum": 1}
		}
	}`,
	"name": `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "maxLength": 100}
		}
	}`,
}

var schemas = mustCompile(schemaSources)

func mustCompile(src map[string]string) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(src))
	for name, s := range src {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(s), rs); err != nil {
			panic(fmt.Sprintf("compile schema %s: %v", name, err))
		}
		out[name] = rs
	}
	return out
}

var quotedName = regexp.MustCompile(`"([^"]+)"`)

// validate checks body against the named schema and groups the failures by
// field.
func validate(ctx context.Context, name string, body []byte) (map[string][]string, error) {
	rs, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("no schema named %s", name)
	}
	verrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) == 0 {
		return nil, nil
	}
	out := map[string][]string{}
	for _, v := range verrs {
		field := fieldName(v.PropertyPath, v.Message)
		out[field] = append(out[field], v.Message)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out, nil
}

func fieldName(path, msg string) string {
	field := strings.Trim(path, "/")
	if field != "" {
		if i := strings.Index(field, "/"); i > 0 {
			field = field[:i]
		}
		return field
	}
	// required errors are reported on the parent object
	if m := quotedName.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return "body"
}
