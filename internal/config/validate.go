package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateScryfall(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		return errors.New("paths.media_dir must be set")
	}
	return nil
}

func (c *Config) validateMedia() error {
	for field, value := range map[string]string{
		"media.base_url": c.Media.BaseURL,
		"media.back_url": c.Media.BackURL,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", field)
		}
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", field, err)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Parallelism < 1 {
		return errors.New("render.parallelism must be at least 1")
	}
	if c.Render.LockPollSeconds < 1 {
		return errors.New("render.lock_poll_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateScryfall() error {
	if c.Scryfall.BaseURL == "" {
		return errors.New("scryfall.base_url must be set")
	}
	if _, err := url.ParseRequestURI(c.Scryfall.BaseURL); err != nil {
		return fmt.Errorf("scryfall.base_url is not a valid URL: %w", err)
	}
	if c.Scryfall.RequestTimeout < 1 {
		return errors.New("scryfall.request_timeout must be at least 1 second")
	}
	return nil
}
