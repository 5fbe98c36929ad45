package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rules is the on-disk description of the security group posture the
// app applies at synth time.
type Rules struct {
	AllowAllOutbound bool        `yaml:"allow_all_outbound"`
	Ingress          []RuleEntry `yaml:"ingress" validate:"dive"`
	Egress           []RuleEntry `yaml:"egress" validate:"dive"`
}

// RuleEntry is one ingress or egress rule in the rules file.
type RuleEntry struct {
	Cidr        string `yaml:"cidr" validate:"required,cidr"`
	Protocol    string `yaml:"protocol" validate:"required,oneof=tcp udp icmp"`
	FromPort    int64  `yaml:"from_port" validate:"min=-1,max=65535"`
	ToPort      int64  `yaml:"to_port" validate:"min=-1,max=65535,gtefield=FromPort"`
	Description string `yaml:"description"`
}

var validate = validator.New()

// LoadRules reads and validates a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates rules file contents.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := validate.Struct(&rules); err != nil {
		return nil, fmt.Errorf("validate rules file: %w", err)
	}
	return &rules, nil
}
