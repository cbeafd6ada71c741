package service

import "Sulam-App/internal/domain/repository"

type repositoryProvider []*fakeProvider

func (r repositoryProvider) providers() []repository.ChatProvider {
	out := make([]repository.ChatProvider, len(r))
	for i, p := range r {
		out[i] = p
	}
	return out
}
