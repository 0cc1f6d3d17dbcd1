// Copyright 2022 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package promhttp

import "context"

type requestPathKey struct{}

// WithRequestPath returns a context carrying the path reported by the "path"
// label of the instrumentation middlewares. Routers typically set it to their
// matched route pattern rather than the raw URL path, keeping the label
// cardinality bounded.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey{}, path)
}

func pathFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(requestPathKey{}).(string); ok {
		return value
	}
	return "*"
}
