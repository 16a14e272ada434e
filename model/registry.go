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

import "github.com/tomoncle/blog/database"

// Priorities follow table creation order, referenced tables first.
const (
	priorityUser = iota + 1
	priorityBlog
	priorityTag
	priorityPost
	priorityPostTag
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), priorityUser))
	database.RegisteredModel(database.NewModelAdapter((*Blog)(nil), priorityBlog))
	database.RegisteredModel(database.NewModelAdapter((*Tag)(nil), priorityTag))
	database.RegisteredModel(database.NewModelAdapter((*Post)(nil), priorityPost))
	database.RegisteredModel(database.NewModelAdapter((*PostTag)(nil), priorityPostTag))
}

// ForeignKeys lists the constraints between the blogging tables. They are
// added by the "add_foreign_keys" migration when foreign keys are enabled.
func ForeignKeys() []database.ForeignKeyConstraint {
	return []database.ForeignKeyConstraint{
		{Table: "blog", Column: "user_id", ReferenceTable: "jhi_user", ReferenceColumn: "id", OnDelete: "SET NULL"},
		{Table: "post", Column: "blog_id", ReferenceTable: "blog", ReferenceColumn: "id", OnDelete: "SET NULL"},
		{Table: "rel_post__tag", Column: "post_id", ReferenceTable: "post", ReferenceColumn: "id", OnDelete: "CASCADE"},
		{Table: "rel_post__tag", Column: "tag_id", ReferenceTable: "tag", ReferenceColumn: "id", OnDelete: "CASCADE"},
	}
}

func init() {
	database.RegisterForeignKeys(ForeignKeys()...)
}
