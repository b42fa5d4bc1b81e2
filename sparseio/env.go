// SPDX-License-Identifier: MIT
// Package: lvsparse/sparseio

package sparseio

import (
	"os"
	"strconv"
)

// EnvPrefix is the prefix of the tensor filename variables (TENSOR0, ...).
const EnvPrefix = "TENSOR"

// TensorFilename returns the value of TENSOR<id> and whether it is set.
func TensorFilename(id int) (string, bool) {
	return os.LookupEnv(EnvPrefix + strconv.Itoa(id))
}
