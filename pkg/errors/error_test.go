package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameters, "invalid parameters")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameters, err.Code)
	suite.Equal("invalid parameters", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeDataUnavailable, "no history for symbol %s", "HSI")
	suite.NotNil(err)
	suite.Equal(ErrCodeDataUnavailable, err.Code)
	suite.Equal("no history for symbol HSI", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal("query failed", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataParseFailed, cause, "failed to parse bar %d", 42)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataParseFailed, err.Code)
	suite.Equal("failed to parse bar 42", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameters, "invalid parameters")
	suite.Equal("[100] invalid parameters", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataUnavailable, "data unavailable", cause)
	suite.Equal("[200] data unavailable: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataUnavailable, "data unavailable", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInsufficientFunds, "not enough cash")
	suite.Equal(ErrCodeInsufficientFunds, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeInsufficientPosition, "position too small")
	err := fmt.Errorf("simulate: %w", cause)
	suite.Equal(ErrCodeInsufficientPosition, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain error")))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeUnknownPosition, "no holding for symbol")
	suite.True(HasCode(err, ErrCodeUnknownPosition))
	suite.False(HasCode(err, ErrCodeInsufficientFunds))
}
