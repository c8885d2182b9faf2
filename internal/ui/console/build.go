package console

import (
	"context"
	"fmt"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/gopak/framepak/internal/manager"
)

// Build asks which dependencies to build, shows the resulting plan and builds
// it after confirmation.
func (c *ConsoleUI) Build(ctx context.Context, opts manager.BuildOptions, runner manager.Runner) error {
	names := c.m.Dependencies()
	if len(names) == 0 {
		fmt.Fprintln(c.out, "Nothing to build")
		return nil
	}

	selected := make([]string, 0)
	ms := &survey.MultiSelect{Message: "Select dependencies to build", Options: names, Default: names}
	if err := survey.AskOne(ms, &selected); err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(c.out, "Nothing selected")
		return nil
	}

	order, err := c.m.BuildOrder(selected...)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, renderOrder(order, c.m.Graph()))

	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: "Proceed to build?", Default: true}, &ok); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	opts.Names = selected
	return c.m.Build(ctx, opts, runner, newReporter(c.out))
}
