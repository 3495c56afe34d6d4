package expectation_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/goldencheck/internal/expectation"
)

const (
	goldenFixtureConstant = `
# golden values for production tiers
###BEGIN SEARCH HEADS###

###server.conf###
[httpServer]
busyKeepAliveIdleTimeout = 120
streamInWriteTimeout = 30   # seconds

[sslConfig]
allowSslCompression = true

###LIMITS.conf###
[search]
remote_timeline_connection_timeout = 30

###END SEARCH HEADS###

#######################

###BEGIN indexer###
###server.conf###
[clustering]
heartbeat_period = 10
cxn_timeout = 300
###END indexer###
`
	goldenSubtestNameTemplateConstant = "%d_%s"
)

func TestParseGoldenBuildsOrderedDocument(testInstance *testing.T) {
	document, parseError := expectation.ParseGolden(strings.NewReader(goldenFixtureConstant))
	require.NoError(testInstance, parseError)

	require.Equal(testInstance, expectation.OriginGolden, document.Origin)
	require.Len(testInstance, document.Roles, 2)
	require.Equal(testInstance, expectation.RoleSearchHead, document.Roles[0].Role)
	require.Equal(testInstance, expectation.RoleIndexer, document.Roles[1].Role)

	searchHeadFiles := document.Roles[0].Files
	require.Len(testInstance, searchHeadFiles, 2)
	require.Equal(testInstance, "server.conf", searchHeadFiles[0].Name)
	require.Equal(testInstance, "limits.conf", searchHeadFiles[1].Name)
	require.Equal(testInstance, "30", searchHeadFiles[0].Stanzas[0].Settings[1].Value)
	require.Equal(testInstance, 6, document.Count())
}

func TestParseGoldenFlattensSortedExpectations(testInstance *testing.T) {
	document, parseError := expectation.ParseGolden(strings.NewReader(goldenFixtureConstant))
	require.NoError(testInstance, parseError)

	expectations := document.Expectations()
	require.Len(testInstance, expectations, 6)

	first := expectations[0]
	require.Equal(testInstance, expectation.RoleSearchHead, first.Role)
	require.Equal(testInstance, "limits.conf", first.File)
	require.Equal(testInstance, expectation.SeverityError, first.Severity)
	require.Equal(testInstance, expectation.OriginGolden, first.Origin)

	last := expectations[len(expectations)-1]
	require.Equal(testInstance, expectation.RoleIndexer, last.Role)
	require.Equal(testInstance, "heartbeat_period", last.Key)

	for index := 1; index < len(expectations); index++ {
		require.False(testInstance, expectation.Less(expectations[index], expectations[index-1]))
	}
}

func TestParseGoldenRoundTrip(testInstance *testing.T) {
	original, parseError := expectation.ParseGolden(strings.NewReader(goldenFixtureConstant))
	require.NoError(testInstance, parseError)

	serialized := &bytes.Buffer{}
	require.NoError(testInstance, expectation.WriteGolden(serialized, original))

	reparsed, reparseError := expectation.ParseGolden(strings.NewReader(serialized.String()))
	require.NoError(testInstance, reparseError)
	require.Equal(testInstance, original, reparsed)
}

func TestParseGoldenMergesRepeatedRoleBlocks(testInstance *testing.T) {
	content := strings.Join([]string{
		"###BEGIN indexer###",
		"###server.conf###",
		"[general]",
		"parallelIngestionPipelines = 2",
		"###END indexer###",
		"###BEGIN INDEXERS###",
		"###server.conf###",
		"[general]",
		"pass4SymmKey = changeme",
		"###END###",
	}, "\n")

	document, parseError := expectation.ParseGolden(strings.NewReader(content))
	require.NoError(testInstance, parseError)
	require.Len(testInstance, document.Roles, 1)
	require.Len(testInstance, document.Roles[0].Files, 1)
	require.Len(testInstance, document.Roles[0].Files[0].Stanzas[0].Settings, 2)
}

func TestParseGoldenRejectsMalformedInput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		content        string
		expectedLine   int
		expectedReason string
	}{
		{
			name:           "malformed_marker",
			content:        "###BEGIN indexer###\n###server.conf\n",
			expectedLine:   2,
			expectedReason: "malformed section marker",
		},
		{
			name:           "unknown_role",
			content:        "###BEGIN forwarder###\n",
			expectedLine:   1,
			expectedReason: "unknown role",
		},
		{
			name:           "stanza_outside_file",
			content:        "###BEGIN indexer###\n[general]\n###END indexer###\n",
			expectedLine:   2,
			expectedReason: "outside a configuration file block",
		},
		{
			name:           "setting_outside_stanza",
			content:        "###BEGIN indexer###\n###server.conf###\nserverName = idx1\n###END indexer###\n",
			expectedLine:   3,
			expectedReason: "outside a stanza",
		},
		{
			name:           "content_outside_role",
			content:        "serverName = idx1\n",
			expectedLine:   1,
			expectedReason: "content outside a role block",
		},
		{
			name:           "file_marker_outside_role",
			content:        "###server.conf###\n",
			expectedLine:   1,
			expectedReason: "outside a role block",
		},
		{
			name:           "end_without_begin",
			content:        "###END indexer###\n",
			expectedLine:   1,
			expectedReason: "without a matching begin marker",
		},
		{
			name:           "end_mismatch",
			content:        "###BEGIN indexer###\n###END search-head###\n",
			expectedLine:   2,
			expectedReason: "does not close open block",
		},
		{
			name:           "nested_begin",
			content:        "###BEGIN indexer###\n###BEGIN search-head###\n",
			expectedLine:   2,
			expectedReason: "still open",
		},
		{
			name:           "unterminated_block",
			content:        "\n###BEGIN indexer###\n###server.conf###\n[general]\nserverName = idx1\n",
			expectedLine:   2,
			expectedReason: "is not closed",
		},
		{
			name:           "unrecognized_line",
			content:        "###BEGIN indexer###\n###server.conf###\n[general]\nserverName\n###END indexer###\n",
			expectedLine:   4,
			expectedReason: "expected [stanza] or key = value",
		},
		{
			name:           "duplicate_key",
			content:        "###BEGIN indexer###\n###server.conf###\n[general]\na = 1\na = 2\n###END indexer###\n",
			expectedLine:   5,
			expectedReason: "duplicate key",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(goldenSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			document, parseError := expectation.ParseGolden(strings.NewReader(testCase.content))
			require.Error(testInstance, parseError)
			require.Empty(testInstance, document.Roles)

			var malformed *expectation.ParseError
			require.True(testInstance, errors.As(parseError, &malformed))
			require.Equal(testInstance, testCase.expectedLine, malformed.Line)
			require.Contains(testInstance, malformed.Reason, testCase.expectedReason)
		})
	}
}

func TestParseGoldenSkipsEmptyValues(testInstance *testing.T) {
	content := "###BEGIN indexer###\n###server.conf###\n[general]\nserverName =   # set per host\nsite = site1\n###END indexer###\n"

	document, parseError := expectation.ParseGolden(strings.NewReader(content))
	require.NoError(testInstance, parseError)

	expectations := document.Expectations()
	require.Len(testInstance, expectations, 1)
	require.Equal(testInstance, "site", expectations[0].Key)
}

func TestDocumentFilterRole(testInstance *testing.T) {
	document, parseError := expectation.ParseGolden(strings.NewReader(goldenFixtureConstant))
	require.NoError(testInstance, parseError)

	filtered := document.FilterRole(expectation.RoleIndexer)
	expectations := filtered.Expectations()
	require.Len(testInstance, expectations, 2)
	for _, filteredExpectation := range expectations {
		require.Equal(testInstance, expectation.RoleIndexer, filteredExpectation.Role)
	}

	require.Empty(testInstance, document.FilterRole(expectation.RoleSHCDeployer).Expectations())
}

func TestParseRoleAcceptsCanonicalAndLegacyLabels(testInstance *testing.T) {
	testCases := []struct {
		label        string
		expectedRole expectation.Role
	}{
		{label: "search-head", expectedRole: expectation.RoleSearchHead},
		{label: "SEARCH HEADS", expectedRole: expectation.RoleSearchHead},
		{label: "Cluster_Manager", expectedRole: expectation.RoleClusterManager},
		{label: "SHC DEPLOYER", expectedRole: expectation.RoleSHCDeployer},
		{label: "HTTP EVENT COLLECTOR RECEVIER INSTANCE", expectedRole: expectation.RoleHTTPEventCollector},
		{label: "http-event-collector", expectedRole: expectation.RoleHTTPEventCollector},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(goldenSubtestNameTemplateConstant, testCaseIndex, testCase.label), func(testInstance *testing.T) {
			role, roleError := expectation.ParseRole(testCase.label)
			require.NoError(testInstance, roleError)
			require.Equal(testInstance, testCase.expectedRole, role)
		})
	}

	_, unknownError := expectation.ParseRole("forwarder")
	require.Error(testInstance, unknownError)
}
