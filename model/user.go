/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "github.com/uptrace/bun"

// User owns blogs. Only the columns needed for relationships are mapped.
type User struct {
	bun.BaseModel `bun:"table:jhi_user,alias:jhi_user"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Login string `bun:"login,notnull,unique" json:"login"`
}

func (u *User) GetID() int64 { return u.ID }
