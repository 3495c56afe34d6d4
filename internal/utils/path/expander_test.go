package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/goldencheck/internal/utils/path"
)

func TestExpanderResolvesHomeAndVariables(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator), "home", "auditor")
	environment := map[string]string{"SPLUNK_HOME": "/opt/splunk", "GOLDEN_DIR": "~/golden"}
	expander := pathutils.NewExpanderWithDependencies(
		func() (string, error) { return homeDirectory, nil },
		func(name string) (string, bool) {
			value, exists := environment[name]
			return value, exists
		},
	)

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "blank", input: "   ", expectedPath: ""},
		{name: "absolute", input: "/srv/golden.txt", expectedPath: "/srv/golden.txt"},
		{name: "home_only", input: "~", expectedPath: homeDirectory},
		{name: "home_relative", input: "~/diag.tar.gz", expectedPath: filepath.Join(homeDirectory, "diag.tar.gz")},
		{name: "other_user", input: "~splunk/diag.tar.gz", expectedPath: "~splunk/diag.tar.gz"},
		{name: "variable", input: "$SPLUNK_HOME/etc/golden.txt", expectedPath: "/opt/splunk/etc/golden.txt"},
		{name: "braced_variable", input: "${SPLUNK_HOME}/etc", expectedPath: "/opt/splunk/etc"},
		{name: "variable_with_home", input: "$GOLDEN_DIR/rules.yaml", expectedPath: filepath.Join(homeDirectory, "golden", "rules.yaml")},
		{name: "unknown_variable", input: "$UNSET_DIR/rules.yaml", expectedPath: "${UNSET_DIR}/rules.yaml"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestExpanderKeepsShortcutWhenHomeIsUnknown(testInstance *testing.T) {
	expander := pathutils.NewExpanderWithDependencies(
		func() (string, error) { return "", errors.New("no home") },
		func(string) (string, bool) { return "", false },
	)
	require.Equal(testInstance, "~/diag.tar.gz", expander.Expand("~/diag.tar.gz"))

	var nilExpander *pathutils.Expander
	require.Equal(testInstance, "~/x", nilExpander.Expand("~/x"))
}
