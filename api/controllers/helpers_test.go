package controllers

import (
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
)

func notFoundErr(msg string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, msg)
}
