// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import "fmt"

const (
	StrategyKindInvalidValueError = "strategy.kind must be \"whole\" or \"fixed\""
	StrategyStepInvalidValueError = "strategy.step must be > 0 when strategy.kind is \"fixed\""
	BackendKindInvalidValueError  = "backend kind must be \"memory\" or \"gcs\""
	BackendBucketRequiredError    = "bucket is required when backend kind is \"gcs\""
	LogSeverityInvalidValueError  = "log.severity must be one of TRACE, DEBUG, INFO, WARNING, ERROR, OFF"
	LogFormatInvalidValueError    = "log.format must be \"text\" or \"json\""
)

// Validate checks c for internal consistency, the way the teacher's own
// validate.go checks its much larger Config before a mount proceeds.
func Validate(c *Config) error {
	if err := validateStrategy(c.Strategy); err != nil {
		return err
	}
	if err := validateBackend("origin", c.Origin); err != nil {
		return err
	}
	if err := validateBackend("cache", c.Cache); err != nil {
		return err
	}
	if err := validateLog(c.Log); err != nil {
		return err
	}
	return nil
}

func validateStrategy(s StrategyConfig) error {
	switch s.Kind {
	case "whole":
		return nil
	case "fixed":
		if s.Step <= 0 {
			return fmt.Errorf(StrategyStepInvalidValueError)
		}
		return nil
	default:
		return fmt.Errorf(StrategyKindInvalidValueError)
	}
}

func validateBackend(role string, b BackendConfig) error {
	switch b.Kind {
	case BackendMemory:
		return nil
	case BackendGCS:
		if b.Bucket == "" {
			return fmt.Errorf("%s: %s", role, BackendBucketRequiredError)
		}
		return nil
	default:
		return fmt.Errorf("%s: %s", role, BackendKindInvalidValueError)
	}
}

func validateLog(l LogConfig) error {
	switch l.Severity {
	case "TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "OFF":
	default:
		return fmt.Errorf(LogSeverityInvalidValueError)
	}
	switch l.Format {
	case "text", "json":
	default:
		return fmt.Errorf(LogFormatInvalidValueError)
	}
	return nil
}
