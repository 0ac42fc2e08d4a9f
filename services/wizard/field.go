package wizard

import (
	"encoding/json"
	"fmt"
)

// Field is a project setting the template asks for. Its value ends up as a repository variable named SecretName.
type Field struct {
	Name        string `json:"name"`
	SecretName  string `json:"secretName"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

func ParseField(raw string) (Field, error) {
	descriptor := struct {
		Name   string `json:"name"`
		Secret string `json:"secret"`
		Descr  string `json:"descr"`
	}{}
	err := json.Unmarshal([]byte(raw), &descriptor)
	if err != nil {
		return Field{}, fmt.Errorf("misconfigured field %s: %s", raw, err)
	}
	if descriptor.Name == "" || descriptor.Secret == "" || descriptor.Descr == "" {
		return Field{}, fmt.Errorf("misconfigured field %s: name, secret and descr are required", raw)
	}
	return Field{
		Name:        descriptor.Name,
		SecretName:  descriptor.Secret,
		Description: descriptor.Descr,
	}, nil
}

func ParseFields(raws []string) ([]Field, error) {
	fields := []Field{}
	for _, raw := range raws {
		f, err := ParseField(raw)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}
