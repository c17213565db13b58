// Package credentials loads the personal-data record used to log in to job
// sites. The file is read fresh for every attempt and never written.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyUsername = "login_credentials.username"
	keyPassword = "login_credentials.password"
	keyFullName = "personal_info.full_name"
	keyEmail    = "personal_info.email"
)

// Record is the subset of the personal-data file jobgate cares about.
type Record struct {
	Username     string
	Password     string
	PersonalInfo PersonalInfo
}

type PersonalInfo struct {
	FullName string
	Email    string
}

// MissingFieldsError reports required keys that are absent or empty.
type MissingFieldsError struct {
	Path   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Path, strings.Join(e.Fields, ", "))
}

func read(path string) (*viper.Viper, error) {
	if path == "" {
		return nil, errors.New("no credential file configured")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	return v, nil
}

func requireKeys(v *viper.Viper, path string, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if strings.TrimSpace(v.GetString(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Path: path, Fields: missing}
	}
	return nil
}

// LoadLogin reads the login credentials. Both username and password must be
// present and non-empty.
func LoadLogin(path string) (*Record, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := requireKeys(v, path, keyUsername, keyPassword); err != nil {
		return nil, err
	}
	return &Record{
		Username: v.GetString(keyUsername),
		Password: v.GetString(keyPassword),
		PersonalInfo: PersonalInfo{
			FullName: v.GetString(keyFullName),
			Email:    v.GetString(keyEmail),
		},
	}, nil
}

// LoadPersonalInfo reads the personal_info block; full_name and email are
// required.
func LoadPersonalInfo(path string) (*PersonalInfo, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := requireKeys(v, path, keyFullName, keyEmail); err != nil {
		return nil, err
	}
	return &PersonalInfo{
		FullName: v.GetString(keyFullName),
		Email:    v.GetString(keyEmail),
	}, nil
}
