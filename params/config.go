package params

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/spf13/viper"
)

// Config is everything a track is processed with.
// It is passed explicitly; nothing in the pipeline reads package globals.
type Config struct {
	Activity    activity.Activity
	Profiles    *activity.Profiles
	Overrides   activity.Overrides
	Clean       *CleanConfig
	Segmenter   *SegmenterConfig
	Extremum    *ExtremumConfig
	Compression *CompressionConfig
}

// DefaultConfig returns a Config built from fresh copies of the defaults.
func DefaultConfig() *Config {
	clean, seg, ext, comp := *DefaultCleanConfig, *DefaultSegmenterConfig, *DefaultExtremumConfig, *DefaultCompressionConfig
	return &Config{
		Activity:    DefaultActivity,
		Profiles:    DefaultProfiles(),
		Clean:       &clean,
		Segmenter:   &seg,
		Extremum:    &ext,
		Compression: &comp,
	}
}

// dateToStringHook lets unquoted YAML dates (decoded as time.Time) fill string fields.
func dateToStringHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t.Kind() != reflect.String {
		return data, nil
	}
	if tm, ok := data.(time.Time); ok {
		return tm.Format(activity.OverrideDateLayout), nil
	}
	return data, nil
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	dateToStringHook,
	mapstructure.StringToTimeDurationHookFunc(),
)

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Load layers the settings found in v over DefaultConfig.
// Activity rows are merged by id: fields left out of a row keep their
// default (or fallback) values, and new ids are appended to the table.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if s := v.GetString("activity"); s != "" {
		cfg.Activity = activity.FromString(s)
		if cfg.Activity == activity.Unknown {
			cfg.Activity = activity.Activity(s)
		}
	}
	if s := v.GetString("default_activity"); s != "" {
		cfg.Profiles.Default = activity.Activity(s)
	}

	if raw := v.Get("activities"); raw != nil {
		rows, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("activities: want a list, got %T", raw)
		}
		for i, row := range rows {
			m, ok := row.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("activities[%d]: want a map, got %T", i, row)
			}
			id, _ := m["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("activities[%d]: missing id", i)
			}
			if err := mergeProfile(cfg.Profiles, activity.Activity(id), m); err != nil {
				return nil, fmt.Errorf("activities[%d]: %w", i, err)
			}
		}
	}

	if err := decode(v.Get("overrides"), &cfg.Overrides); err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	for key, out := range map[string]any{
		"clean":       cfg.Clean,
		"segmenter":   cfg.Segmenter,
		"extremum":    cfg.Extremum,
		"compression": cfg.Compression,
	} {
		if err := decode(v.Get(key), out); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return cfg, nil
}

func mergeProfile(profiles *activity.Profiles, id activity.Activity, m map[string]any) error {
	for i := range profiles.Table {
		if profiles.Table[i].ID == id {
			return decode(m, &profiles.Table[i])
		}
	}
	p := activity.FallbackProfile(id)
	if err := decode(m, &p); err != nil {
		return err
	}
	profiles.Table = append(profiles.Table, p)
	return nil
}
