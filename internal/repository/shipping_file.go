package repository

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type shippingFile struct {
	Methods []domain.ShippingMethod `yaml:"methods"`
}

type fileShippingSource struct {
	methods []domain.ShippingMethod
}

// NewFileShippingSource loads a fixed set of shipping methods from a YAML
// file once at start-up:
//
//	methods:
//	  - id: motoboy
//	    type: Motoboy
//	    price: 10
func NewFileShippingSource(path string, logger *logrus.Logger) (domain.ShippingMethodSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read shipping methods file: %w", err)
	}
	var f shippingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("could not parse shipping methods file %s: %w", path, err)
	}
	for i, m := range f.Methods {
		if m.ID == "" || m.Type == "" {
			return nil, fmt.Errorf("shipping method %d in %s: id and type are required", i, path)
		}
		if m.Price < 0 {
			return nil, fmt.Errorf("shipping method %s in %s: price cannot be negative", m.ID, path)
		}
	}
	logger.Infof("Loaded %d shipping methods from %s", len(f.Methods), path)
	return &fileShippingSource{methods: f.Methods}, nil
}

func (s *fileShippingSource) ListShippingMethods(context.Context) ([]domain.ShippingMethod, error) {
	out := make([]domain.ShippingMethod, len(s.methods))
	copy(out, s.methods)
	return out, nil
}
