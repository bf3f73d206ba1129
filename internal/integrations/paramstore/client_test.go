package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
}

func (f *fakeAPI) GetParameter(_ context.Context, _ *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return f.getOut, f.getErr
}

func strPtr(s string) *string { return &s }

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("p"), Value: strPtr("123:ABC"),
	}}}
	client, err := New(api)
	require.NoError(t, err)
	v, err := client.GetParameter(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "123:ABC", v)
}

func TestGetToken_SecureString(t *testing.T) {
	typeStr := "SecureString"
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("p"), Value: strPtr(`{"token":"123:ABC"}`), Type: types.ParameterType(typeStr),
	}}}
	client, err := New(api)
	require.NoError(t, err)
	v, err := client.GetToken(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "123:ABC", v)
}

func TestGetParameter_MissingValue(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p"), Value: nil}}}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_ApiError(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.ErrorContains(t, err, "boom")
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestGetParameter_EmptyName(t *testing.T) {
	api := &fakeAPI{}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestGetToken_JSONAndBare(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "json", value: `{"token":"sk-json"}`, want: "sk-json"},
		{name: "bare", value: "123:ABC", want: "123:ABC"},
		{name: "bare padded", value: "  123:ABC\n", want: "123:ABC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := New(&fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: strPtr(tc.value)}}})
			require.NoError(t, err)
			v, err := client.GetToken(context.Background(), "/chat-relay/token")
			require.NoError(t, err)
			require.Equal(t, tc.want, v)
		})
	}
}

func TestGetToken_Errors(t *testing.T) {
	client, err := New(&fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: strPtr(`{"other":"x"}`)}}})
	require.NoError(t, err)
	_, err = client.GetToken(context.Background(), "p")
	require.ErrorContains(t, err, "is empty")

	client, err = New(&fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: strPtr(`{"broken`)}}})
	require.NoError(t, err)
	_, err = client.GetToken(context.Background(), "p")
	require.ErrorContains(t, err, "unmarshal")

	client, err = New(&fakeAPI{getErr: errors.New("ssm unavailable")})
	require.NoError(t, err)
	_, err = client.GetToken(context.Background(), "p")
	require.ErrorContains(t, err, "ssm unavailable")
}
