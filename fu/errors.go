package fu

import "golang.org/x/xerrors"

// ErrConfig classifies configuration mistakes which must stop the run before it starts
var ErrConfig = xerrors.New("configuration error")

// ConfigErrorf formats an error matching ErrConfig with xerrors.Is
func ConfigErrorf(format string, a ...interface{}) error {
	return xerrors.Errorf("%w: "+format, append([]interface{}{ErrConfig}, a...)...)
}
