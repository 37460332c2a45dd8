package weather

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Command is a single lookup request: where and when.
type Command struct {
	Location string     `validate:"required"`
	Date     DateOffset `validate:"-"`
}

// NewCommand builds a Command from the raw CLI pair. An empty date token means now.
func NewCommand(location, dateToken string) (Command, error) {
	cmd := Command{
		Location: location,
		Date:     ParseDateOffset(dateToken),
	}
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Validate checks that the command names a location.
func (c Command) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid weather command: %w", err)
	}
	return nil
}

func (c Command) String() string {
	return fmt.Sprintf("%q @ %s", c.Location, c.Date)
}
