package constants

import "math/big"

// AddressZero marks both the native asset (as a settlement token) and the
// absence of a hooks contract.
const AddressZero = "0x0000000000000000000000000000000000000000"

// Q192 is 2^192, the scale of sqrtPriceX96 squared.
var Q192 = new(big.Int).Lsh(big.NewInt(1), 192)
