package handlers

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/s-411/cpn-backend/internal/validation"
)

// decodeStrict unmarshals a request body while rejecting fields outside
// the resource's allow-list, rather than silently ignoring them.
func decodeStrict(body []byte, dest any, allowed ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("invalid request body")
	}
	for key := range raw {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("unknown field: %s", key)
		}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("invalid request body")
	}
	return nil
}

func validateGirlCreateRequest(req *createGirlRequest) validation.FieldErrors {
	errs := validation.FieldErrors{}

	name, err := validation.Name(req.Name)
	if err != nil {
		errs.Add("name", err.Error())
	} else {
		req.Name = name
	}
	if err := validation.Age(req.Age); err != nil {
		errs.Add("age", err.Error())
	}
	if err := validation.Rating(req.Rating); err != nil {
		errs.Add("rating", err.Error())
	}

	validateGirlTextFields(errs, map[string]**string{
		"ethnicity":       &req.Ethnicity,
		"hairColor":       &req.HairColor,
		"locationCity":    &req.LocationCity,
		"locationCountry": &req.LocationCountry,
		"nationality":     &req.Nationality,
	})
	return errs
}

func validateGirlUpdateRequest(req *updateGirlRequest) validation.FieldErrors {
	errs := validation.FieldErrors{}

	if req.Name != nil {
		name, err := validation.Name(*req.Name)
		if err != nil {
			errs.Add("name", err.Error())
		} else {
			*req.Name = name
		}
	}
	if req.Age != nil {
		if err := validation.Age(*req.Age); err != nil {
			errs.Add("age", err.Error())
		}
	}
	if req.Rating != nil {
		if err := validation.Rating(*req.Rating); err != nil {
			errs.Add("rating", err.Error())
		}
	}

	validateGirlTextFields(errs, map[string]**string{
		"ethnicity":       &req.Ethnicity,
		"hairColor":       &req.HairColor,
		"locationCity":    &req.LocationCity,
		"locationCountry": &req.LocationCountry,
		"nationality":     &req.Nationality,
	})
	return errs
}

func validateGirlTextFields(errs validation.FieldErrors, fields map[string]**string) {
	for field, value := range fields {
		if *value == nil {
			continue
		}
		sanitized, err := validation.OptionalText(field, **value)
		if err != nil {
			errs.Add(field, err.Error())
			continue
		}
		**value = sanitized
	}
}

func validateEntryValues(errs validation.FieldErrors, amount *float64, duration, nuts *int) {
	if amount != nil {
		if err := validation.Amount(*amount); err != nil {
			errs.Add("amountSpent", err.Error())
		}
	}
	if duration != nil {
		if err := validation.Duration(*duration); err != nil {
			errs.Add("durationMinutes", err.Error())
		}
	}
	if nuts != nil {
		if err := validation.Nuts(*nuts); err != nil {
			errs.Add("numberOfNuts", err.Error())
		}
	}
}
