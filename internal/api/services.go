package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so it satisfies Requester.

type BreedersService struct{ *Client }

type PoultriesService struct{ *Client }

type RegistersService struct{ *Client }

type AdvertisingsService struct{ *Client }

type DealsService struct{ *Client }

func (c *Client) Breeders() BreedersService {
	return BreedersService{c}
}

func (c *Client) Poultries() PoultriesService {
	return PoultriesService{c}
}

func (c *Client) Registers() RegistersService {
	return RegistersService{c}
}

func (c *Client) Advertisings() AdvertisingsService {
	return AdvertisingsService{c}
}

func (c *Client) Deals() DealsService {
	return DealsService{c}
}
