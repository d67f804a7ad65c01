package records

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubmitInput_RequiredAndOptional(t *testing.T) {
	in, err := DecodeSubmitInput([]byte(`{"name":"Ana","email":"a@x.com","age":30}`))
	require.NoError(t, err)

	assert.Equal(t, "Ana", in.Name)
	assert.Equal(t, "a@x.com", in.Email)
	require.NotNil(t, in.Age)
	assert.Equal(t, 30, *in.Age)
	assert.Nil(t, in.Weight)
	assert.Nil(t, in.Height)
	assert.Nil(t, in.BloodPressure)
	assert.Nil(t, in.Notes)
}

func TestDecodeSubmitInput_CoercesNumbers(t *testing.T) {
	in, err := DecodeSubmitInput([]byte(`{
		"name": "Bob", "email": "b@x.com",
		"age": "41", "weight": "80.5", "height": 1.8,
		"blood_pressure": null, "extra": true
	}`))
	require.NoError(t, err)

	assert.Equal(t, 41, *in.Age)
	assert.Equal(t, 80.5, *in.Weight)
	assert.Equal(t, 1.8, *in.Height)
	assert.Nil(t, in.BloodPressure)

	in, err = DecodeSubmitInput([]byte(`{"name":"Bob","email":"b@x.com","age":30.0}`))
	require.NoError(t, err)
	assert.Equal(t, 30, *in.Age)
}

func TestDecodeSubmitInput_RejectsBadTypes(t *testing.T) {
	_, err := DecodeSubmitInput([]byte(`{"name":42,"email":"b@x.com","age":30.5,"weight":"heavy"}`))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "age")
	assert.Contains(t, verr.Fields, "weight")
	assert.NotContains(t, verr.Fields, "email")
}

func TestDecodeSubmitInput_MissingRequired(t *testing.T) {
	_, err := DecodeSubmitInput([]byte(`{"name":"Ana","email":null}`))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"email": "field required"}, verr.Fields)
}

func TestDecodeSubmitInput_MalformedBody(t *testing.T) {
	for _, body := range []string{``, `{`, `[]`, `null`, `"x"`} {
		_, err := DecodeSubmitInput([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedBody, "body %q", body)
	}
}

func TestDecodeQuery(t *testing.T) {
	q, err := DecodeQuery(nil)
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())

	q, err = DecodeQuery([]byte(`{"name":"ana","age":"30"}`))
	require.NoError(t, err)
	assert.Equal(t, "ana", *q.Name)
	assert.Equal(t, 30, *q.Age)

	_, err = DecodeQuery([]byte(`{"age":"thirty"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeSubmitInput_AgeOutsideInt32(t *testing.T) {
	for _, body := range []string{
		`{"name":"Ana","email":"a@x.com","age":9999999999}`,
		`{"name":"Ana","email":"a@x.com","age":"9999999999"}`,
		`{"name":"Ana","email":"a@x.com","age":-9999999999}`,
		`{"name":"Ana","email":"a@x.com","age":1e10}`,
	} {
		_, err := DecodeSubmitInput([]byte(body))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "body %s: expected validation error, got %v", body, err)
		assert.Contains(t, verr.Fields, "age", "body %s", body)
	}

	in, err := DecodeSubmitInput([]byte(`{"name":"Ana","email":"a@x.com","age":2147483647}`))
	require.NoError(t, err)
	assert.Equal(t, 2147483647, *in.Age)
}

func TestDecodeQuery_AgeOutsideInt32(t *testing.T) {
	_, err := DecodeQuery([]byte(`{"age":"9999999999"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
