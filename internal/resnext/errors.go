package resnext

import "errors"

// Configuration errors. Constructors wrap these with the offending values;
// test for them with errors.Is.
var (
	ErrInvalidBlockConfig   = errors.New("resnext: invalid block configuration")
	ErrChannelsNotDivisible = errors.New("resnext: channel count not divisible by cardinality")
	ErrInvalidStage         = errors.New("resnext: invalid stage configuration")
	ErrStageCount           = errors.New("resnext: network requires exactly four stages")
	ErrInvalidNetwork       = errors.New("resnext: invalid network configuration")
)
