/*
Copyright © 2025 PackForge contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packforge/packforge/builder"
	"github.com/packforge/packforge/config"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the build configuration",
	Long: `Load the build configuration and report structural problems:
missing dockerfiles, image names, or build functions, and build
functions that are not implemented.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "build-config", "build.yaml", "Build configuration file to validate")
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg, err := config.Load(validateConfigPath)
	if err != nil {
		return err
	}

	problems := reg.Validate()
	for _, name := range reg.BuildTypes() {
		id, ok := reg.BuildFunctionID(name)
		if !ok {
			continue // already reported as a structural problem
		}
		if _, err := builder.ParseFunction(id); err != nil {
			problems = append(problems, fmt.Errorf("build type %q: build_function %q is not one of %s",
				name, id, strings.Join(builder.FunctionIDs(), ", ")))
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", p)
		}
		return fmt.Errorf("%s has %d problem(s)", validateConfigPath, len(problems))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d build type(s) OK\n", validateConfigPath, len(reg.BuildTypes()))
	return nil
}
