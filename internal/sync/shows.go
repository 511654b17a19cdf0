package sync

import (
	"context"
	"fmt"

	"plexmirror/internal/catalog"
	"plexmirror/internal/images"
	"plexmirror/internal/services/plex"
	"plexmirror/internal/store"
)

// showPass is the collected output of one show subtree.
type showPass struct {
	show         catalog.Show
	seasons      []catalog.Season
	episodes     []catalog.Episode
	seenSeasons  []int64
	seenEpisodes []int64
	tasks        []images.Task
}

func (e *Engine) syncShows(ctx context.Context, section plex.Library) LibraryResult {
	result := LibraryResult{Library: section.Title, Type: section.Type}

	filter := e.loadChangeFilter(ctx, store.TableEpisodes)
	shows, err := e.fetchItems(ctx, section)
	if err != nil {
		result.Err = err
		return result
	}

	var batch store.ShowBatch
	var tasks []images.Task
	var processed int
	for _, item := range shows {
		showKey, err := parseRatingKey(item.RatingKey)
		if err != nil {
			e.logger.Warn("show skipped", "title", item.Title, "error", err)
			continue
		}
		// The show stays seen even when its subtree fails, so a
		// transient fetch problem never flips the show row itself.
		batch.SeenShows = append(batch.SeenShows, showKey)

		pass, err := e.processShow(ctx, item, showKey, filter)
		if err != nil {
			if ctx.Err() != nil {
				result.Err = ctx.Err()
				return result
			}
			e.logger.Warn("show subtree skipped", "title", item.Title, "error", err)
			continue
		}

		batch.Shows = append(batch.Shows, pass.show)
		batch.Seasons = append(batch.Seasons, pass.seasons...)
		batch.Episodes = append(batch.Episodes, pass.episodes...)
		batch.SeenSeasons = append(batch.SeenSeasons, pass.seenSeasons...)
		batch.SeenEpisodes = append(batch.SeenEpisodes, pass.seenEpisodes...)
		tasks = append(tasks, pass.tasks...)
		result.Items += len(pass.episodes)

		processed++
		if processed%aggregateProgressInterval == 0 {
			e.logger.Info("show progress", "library", section.Title, "processed", processed, "total", len(shows))
		}
	}

	stats, err := e.runImages(ctx, tasks)
	result.Images = stats
	if err != nil {
		result.Err = err
		return result
	}

	removed, err := e.store.SaveShowLibrary(ctx, batch)
	if err != nil {
		result.Err = fmt.Errorf("save show library %q: %w", section.Title, err)
		return result
	}
	result.Removed = removed
	return result
}

func (e *Engine) processShow(ctx context.Context, item plex.Item, showKey int64, filter *changeFilter) (showPass, error) {
	var pass showPass
	imageDir := e.cfg.ImageDirFor(catalog.KindShow)

	seasons, err := e.fetchChildren(ctx, item.RatingKey, "seasons of "+item.Title)
	if err != nil {
		return pass, err
	}

	for _, seasonItem := range seasons {
		seasonKey, err := parseRatingKey(seasonItem.RatingKey)
		if err != nil {
			e.logger.Warn("season skipped", "show", item.Title, "season", seasonItem.Title, "error", err)
			continue
		}

		episodeItems, err := e.fetchChildren(ctx, seasonItem.RatingKey,
			fmt.Sprintf("episodes of %s %s", item.Title, seasonItem.Title))
		if err != nil {
			return pass, err
		}

		var episodes []catalog.Episode
		for _, episodeItem := range episodeItems {
			episode, err := extractEpisode(episodeItem, showKey, seasonKey)
			if err != nil {
				e.logSkippedLeaf("episode", episodeItem.Title, err)
				continue
			}
			episodes = append(episodes, episode)
			pass.seenEpisodes = append(pass.seenEpisodes, episode.RatingKey)

			if e.wantImages() && episodeItem.Thumb != "" && filter.changed(episode.RatingKey, episode.MediaHash) {
				pass.tasks = append(pass.tasks, imageTask(episode.RatingKey, episode.Title, episodeItem.Thumb, imageDir))
			}
		}

		pass.seasons = append(pass.seasons, aggregateSeason(seasonItem, showKey, seasonKey, episodes))
		pass.seenSeasons = append(pass.seenSeasons, seasonKey)
		pass.episodes = append(pass.episodes, episodes...)

		if e.wantImages() && seasonItem.Thumb != "" {
			pass.tasks = append(pass.tasks, imageTask(seasonKey, seasonItem.Title, seasonItem.Thumb, imageDir))
		}
	}

	pass.show = aggregateShow(item, showKey, len(pass.seasons), pass.episodes)
	if e.wantImages() && item.Thumb != "" {
		pass.tasks = append(pass.tasks, imageTask(showKey, item.Title, item.Thumb, imageDir))
	}
	return pass, nil
}
