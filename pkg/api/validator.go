package api

import (
	"errors"
	"fmt"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p TrainPayload) Validate() error {
	if p.Exercise == "" {
		return errors.New("exercise is required")
	}
	return nil
}

func (p QualityPayload) Validate() error {
	if p.Quality < 0 || p.Quality > 100 {
		return fmt.Errorf("quality %v out of [0,100]", p.Quality)
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.ItemID == "" {
		return errors.New("itemId is required")
	}
	return nil
}

func (p TravelPayload) Validate() error {
	if p.Zone < 0 {
		return errors.New("zone cannot be negative")
	}
	return nil
}

func (p SlotPayload) Validate() error {
	if strings.ContainsAny(p.Slot, "/\\ ") {
		return fmt.Errorf("bad slot name %q", p.Slot)
	}
	return nil
}
