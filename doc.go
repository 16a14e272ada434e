// Package blog provides the entity and query services of the blogging
// domain on top of the generic bun repository.
//
// BlogService and PostService implement save, partial update, paged
// listing, lookup and delete. BlogQueryService and PostQueryService turn
// criteria into specifications and run them:
//
//	db, _ := database.InitDB(cfg)
//	posts := blog.NewPostQueryService(db)
//	page, err := posts.FindPageByCriteria(ctx, &criteria.PostCriteria{
//		Title: &filter.StringFilter{Contains: filter.Of("go")},
//	}, types.NewPageRequest(1, 20))
package blog
