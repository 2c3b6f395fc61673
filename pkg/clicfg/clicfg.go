// Package clicfg binds urfave/cli flag values onto a config struct
// through `flag:"name"` tags.
package clicfg

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"
)

var ErrCannotParseFlags = errors.New("cannot parse flags")

// ParseFlags fills the tagged fields of s, which must be a pointer to
// a struct, from the command's flags. Untagged and unexported fields
// are skipped.
func ParseFlags(c *cli.Command, s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: expected pointer to struct, got %T", ErrCannotParseFlags, s)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		name := field.Tag.Get("flag")
		if name == "" || !value.CanSet() {
			continue
		}

		switch field.Type.Kind() {
		case reflect.String:
			value.SetString(c.String(name))
		case reflect.Bool:
			value.SetBool(c.Bool(name))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			value.SetInt(int64(c.Int(name)))
		default:
			return fmt.Errorf("%w: field %s has unsupported type %s", ErrCannotParseFlags, field.Name, field.Type.Kind())
		}
	}

	return nil
}
